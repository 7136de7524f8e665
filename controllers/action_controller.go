package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"amoria_server/models"
	"amoria_server/services"
)

// ActionController handles HTTP requests for like/dislike/dismatch actions
type ActionController struct {
	ActionService *services.ActionService
	MatchService  *services.MatchService
}

// NewActionController creates a new ActionController instance
func NewActionController(actionService *services.ActionService, matchService *services.MatchService) *ActionController {
	return &ActionController{ActionService: actionService, MatchService: matchService}
}

// HandleAction processes user actions such as "like" and "dislike"
func (ac *ActionController) HandleAction(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ActorToken  string `json:"actorToken"`
		TargetToken string `json:"targetToken"`
		Action      string `json:"action"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("Invalid request payload:", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if request.ActorToken == "" || request.TargetToken == "" || request.Action == "" {
		log.Println("Missing required fields in /action request")
		http.Error(w, "actorToken, targetToken, and action are required", http.StatusBadRequest)
		return
	}

	outcome, err := ac.ActionService.ProcessAction(r.Context(), request.ActorToken, request.TargetToken, request.Action)
	if err != nil {
		log.Println("Error processing action:", err)
		writeServiceError(w, err)
		return
	}

	if request.Action == models.ActionDislike {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Dislike recorded"})
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleDismatch dissolves an existing match between two users
func (ac *ActionController) HandleDismatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ActorToken string `json:"actorToken"`
		OtherToken string `json:"otherToken"`
		MatchID    string `json:"matchId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("Invalid request payload:", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if request.ActorToken == "" || request.OtherToken == "" || request.MatchID == "" {
		log.Println("Missing required fields in /dismatch request")
		http.Error(w, "actorToken, otherToken, and matchId are required", http.StatusBadRequest)
		return
	}

	if err := ac.MatchService.Dismatch(r.Context(), request.ActorToken, request.OtherToken, request.MatchID); err != nil {
		log.Println("Error processing dismatch:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Match removed"})
}
