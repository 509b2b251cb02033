package progress

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler serves the admin analytics endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAllUserProgress(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.GetAllUserProgress())
}

func (h *Handler) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	p, ok := h.service.GetUserProgress(vars["email"])
	if !ok {
		http.Error(w, "No progress recorded for user", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) GetLoginHistory(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.GetLoginHistory())
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.Leaderboard())
}

// GetSummary returns the headline counts for the admin dashboard.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	all := h.service.GetAllUserProgress()
	logins := h.service.GetLoginHistory()

	totalSessions := 0
	for _, p := range all {
		totalSessions += p.TotalSessions
	}

	json.NewEncoder(w).Encode(map[string]int{
		"totalUsers":    len(all),
		"totalSessions": totalSessions,
		"totalLogins":   len(logins),
	})
}
