package notify

import (
	"encoding/json"
	"log"
	"net/http"
)

const fallbackReply = "I'm sorry, the assistant is unavailable right now. Please try again later."

type Handler struct {
	relay *Relay
}

func NewHandler(relay *Relay) *Handler {
	return &Handler{relay: relay}
}

type ChatRequest struct {
	Message string `json:"message"`
}

// Chat relays a prompt to the LLM. Relay failures never surface as HTTP
// errors; the client gets a fallback reply instead.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	reply, err := h.relay.Generate(req.Message)
	if err != nil {
		log.Printf("LLM relay error: %v", err)
		reply = fallbackReply
	}

	json.NewEncoder(w).Encode(map[string]string{"reply": reply})
}
