package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"amoria_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// CreateUserProfile registers a new profile and returns it with its
// assigned identity and token
func (c *UserProfileController) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	var input services.CreateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("Failed to decode request body: %v\n", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := c.UserProfileService.CreateProfile(r.Context(), input)
	if err != nil {
		log.Printf("Failed to add profile: %v\n", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile added successfully",
		"profile": profile,
	})
}

// GetUserProfileByID handles fetching a user profile by ID
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GetUserProfileByToken handles fetching a user profile by client token
func (c *UserProfileController) GetUserProfileByToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	profile, err := c.UserProfileService.GetProfileByToken(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GetUserProfileByName handles fetching a user profile by exact name,
// ignoring case
func (c *UserProfileController) GetUserProfileByName(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	profile, err := c.UserProfileService.GetProfileByName(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateUserProfile handles updating an existing user profile
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var input services.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := c.UserProfileService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		log.Printf("Failed to update profile: %v\n", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// DeleteUserProfile handles deleting a user profile
func (c *UserProfileController) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := c.UserProfileService.DeleteProfile(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile deleted successfully",
	})
}

// GetProfileView handles fetching a profile with its populated partner
// projections
func (c *UserProfileController) GetProfileView(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	view, err := c.UserProfileService.ProfileView(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
