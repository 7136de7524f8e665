package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterActionRoutes sets up routes for action-related operations under /api/action
func RegisterActionRoutes(r *mux.Router, actionService *services.ActionService, matchService *services.MatchService) {
	// Initialize the controller with the ActionService and MatchService
	controller := controllers.NewActionController(actionService, matchService)

	// Create a subrouter for /api/action
	actionRouter := r.PathPrefix("/api/action").Subrouter()

	// Define routes and their corresponding handlers
	actionRouter.HandleFunc("", controller.HandleAction).Methods("POST")
	actionRouter.HandleFunc("/dismatch", controller.HandleDismatch).Methods("POST")
}
