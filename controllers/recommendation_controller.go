package controllers

import (
	"log"
	"net/http"

	"amoria_server/services"
)

// RecommendationController handles HTTP requests for the candidate feed
type RecommendationController struct {
	RecommendationService *services.RecommendationService
}

// NewRecommendationController creates a new RecommendationController instance
func NewRecommendationController(recommendationService *services.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recommendationService}
}

// GetRecommendations computes the filtered candidate feed for a user
func (rc *RecommendationController) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	recommendations, err := rc.RecommendationService.Recommend(r.Context(), token)
	if err != nil {
		log.Println("Error computing recommendations:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendations)
}
