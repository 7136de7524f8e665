package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterRecommendationRoutes sets up the candidate feed route under /api/recommendations
func RegisterRecommendationRoutes(r *mux.Router, recommendationService *services.RecommendationService) {
	// Initialize the controller with the RecommendationService
	controller := controllers.NewRecommendationController(recommendationService)

	// Create a subrouter for /api/recommendations
	recommendationRouter := r.PathPrefix("/api/recommendations").Subrouter()

	// Define routes and their corresponding handlers
	recommendationRouter.HandleFunc("", controller.GetRecommendations).Methods("GET")
}
