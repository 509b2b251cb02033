package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"assessment-system/internal/models"
)

// Relay makes the outbound calls to the email sender and the
// generative-text API. The assessment core never depends on either
// succeeding: notification failures are logged and swallowed, and the
// chat handler degrades to a fallback reply.
type Relay struct {
	client   *http.Client
	emailURL string
	llmURL   string
	llmKey   string
}

func NewRelay(emailURL, llmURL, llmKey string) *Relay {
	return &Relay{
		client:   &http.Client{Timeout: 15 * time.Second},
		emailURL: emailURL,
		llmURL:   llmURL,
		llmKey:   llmKey,
	}
}

type emailPayload struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// SendLoginNotification emails the platform owner that a user logged in.
func (r *Relay) SendLoginNotification(user *models.User, ip string) {
	if ip == "" {
		ip = "Unknown"
	}
	message := fmt.Sprintf(
		"USER LOGIN NOTIFICATION\n\nName: %s\nEmail: %s\nLogin Time: %s\nIP Address: %s\nOriginal Registration: %s\n\nThis user has successfully logged into your platform.",
		user.FullName,
		user.Email,
		time.Now().Format(time.RFC1123),
		ip,
		user.RegistrationDate.Format(time.RFC1123),
	)

	r.sendEmail(emailPayload{
		FromName:  user.FullName,
		FromEmail: user.Email,
		Subject:   "User Login Notification",
		Message:   message,
	})
}

// SendRegistrationNotification emails the platform owner about a new
// registration.
func (r *Relay) SendRegistrationNotification(user *models.User) {
	message := fmt.Sprintf(
		"NEW USER REGISTRATION\n\nName: %s\nEmail: %s\nRegistration Time: %s\nIP Address: %s",
		user.FullName,
		user.Email,
		user.RegistrationDate.Format(time.RFC1123),
		user.IPAddress,
	)

	r.sendEmail(emailPayload{
		FromName:  user.FullName,
		FromEmail: user.Email,
		Subject:   "New User Registration",
		Message:   message,
	})
}

func (r *Relay) sendEmail(payload emailPayload) {
	if r.emailURL == "" {
		log.Printf("Email relay not configured, skipping %q", payload.Subject)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling email payload: %v", err)
		return
	}

	resp, err := r.client.Post(r.emailURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Email relay error: %v (continuing without notification)", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		log.Printf("Email relay returned %d for %q (continuing without notification)", resp.StatusCode, payload.Subject)
		return
	}
	log.Printf("Notification email sent: %q for %s", payload.Subject, payload.FromEmail)
}

type llmRequest struct {
	Contents []llmContent `json:"contents"`
}

type llmContent struct {
	Parts []llmPart `json:"parts"`
}

type llmPart struct {
	Text string `json:"text"`
}

type llmResponse struct {
	Candidates []struct {
		Content struct {
			Parts []llmPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate relays a chat prompt to the generative-text API and returns
// the first candidate's text.
func (r *Relay) Generate(prompt string) (string, error) {
	if r.llmURL == "" || r.llmKey == "" {
		return "", errors.New("llm relay not configured")
	}

	body, err := json.Marshal(llmRequest{
		Contents: []llmContent{{Parts: []llmPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", r.llmURL, r.llmKey)
	resp, err := r.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm api returned %d", resp.StatusCode)
	}

	var parsed llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("llm api returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
