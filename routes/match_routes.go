package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match-related operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	// Initialize the controller with the MatchService
	controller := controllers.NewMatchController(matchService)

	// Create a subrouter for /api/match
	matchRouter := r.PathPrefix("/api/match").Subrouter()

	// Define routes and their corresponding handlers
	matchRouter.HandleFunc("/current", controller.GetCurrentMatches).Methods("GET")
	matchRouter.HandleFunc("/newLikes", controller.GetNewLikes).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/messages", controller.AddMessage).Methods("POST")
}
