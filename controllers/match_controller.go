package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"amoria_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for match-related reads and
// message appends
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetCurrentMatches handles fetching current matches for a user
func (mc *MatchController) GetCurrentMatches(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	matches, err := mc.MatchService.CurrentMatches(r.Context(), token)
	if err != nil {
		log.Println("Error fetching current matches:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// GetNewLikes handles fetching pending likes on a user
func (mc *MatchController) GetNewLikes(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	likes, err := mc.MatchService.NewLikes(r.Context(), token)
	if err != nil {
		log.Println("Error fetching new likes:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"likes": likes,
	})
}

// AddMessage appends a message to a match's log
func (mc *MatchController) AddMessage(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		SenderID  string `json:"senderId"`
		Content   string `json:"content"`
		CreatedAt string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("Invalid request payload:", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if request.SenderID == "" || request.Content == "" {
		http.Error(w, "senderId and content are required", http.StatusBadRequest)
		return
	}

	// createdAt is optional; the service stamps server time when absent.
	var sentAt time.Time
	if request.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, request.CreatedAt)
		if err != nil {
			http.Error(w, "createdAt must be RFC3339", http.StatusBadRequest)
			return
		}
		sentAt = parsed
	}

	match, err := mc.MatchService.AppendMessage(r.Context(), matchID, request.SenderID, request.Content, sentAt)
	if err != nil {
		log.Println("Error appending message:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"match": match,
	})
}
