package assessment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"assessment-system/internal/models"
	"assessment-system/internal/questionbank"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type StartRequest struct {
	Level  string `json:"level"`
	Domain string `json:"domain"`
}

type StartResponse struct {
	Session  *models.Session    `json:"session"`
	Question models.QuestionDTO `json:"question"`
	Total    int                `json:"total"`
}

type AnswerRequest struct {
	SessionID  string `json:"sessionId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	TimeSpent  int    `json:"timeSpent"`
}

type AnswerResponse struct {
	Session      *models.Session     `json:"session"`
	NextQuestion *models.QuestionDTO `json:"nextQuestion,omitempty"`
	Report       *Report             `json:"report,omitempty"`
}

func (h *Handler) StartAssessment(w http.ResponseWriter, r *http.Request) {
	userName, _ := r.Context().Value("full_name").(string)
	email, ok := r.Context().Value("email").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Level != models.LevelFresher && req.Level != models.LevelExperienced {
		http.Error(w, "Level must be fresher or experienced", http.StatusBadRequest)
		return
	}

	session, question, err := h.service.StartAssessment(req.Level, req.Domain, userName, email)
	if errors.Is(err, questionbank.ErrNoQuestionsAvailable) {
		log.Printf("No questions for %s/%s", req.Level, req.Domain)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Sorry, no questions available for " + req.Level + " level in " + req.Domain + " domain.",
		})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(StartResponse{
		Session:  session,
		Question: question,
		Total:    session.TotalQuestions,
	})
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	session, next, err := h.service.SubmitAnswer(req.SessionID, req.QuestionID, req.Answer, req.TimeSpent)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrSessionCompleted), errors.Is(err, ErrQuestionExpired):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := AnswerResponse{Session: session, NextQuestion: next}
	if session.Completed() {
		resp.Report = BuildReport(session)
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	session, err := h.service.GetSession(vars["sessionID"])
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(session)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	report, err := h.service.Report(vars["sessionID"])
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(report)
}

func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.service.Discard(vars["sessionID"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDomains(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"domains": h.service.Domains(),
		"levels":  []string{models.LevelFresher, models.LevelExperienced},
	})
}
