package controllers

import (
	"encoding/json"
	"net/http"

	"bonded_server/models"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// ProfileController handles profile upserts and reads.
type ProfileController struct {
	ProfileService *services.ProfileService
}

func NewProfileController(profileService *services.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// UpsertProfile creates or updates the caller's profile. The profile id is
// always the authenticated user's, regardless of the payload.
func (c *ProfileController) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	profile.ID = utils.CallerID(r)
	if profile.School == "" {
		utils.JSONError(w, http.StatusBadRequest, "school is required")
		return
	}

	saved, err := c.ProfileService.SaveProfile(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, saved)
}

func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profile == nil {
		utils.JSONError(w, http.StatusNotFound, "Profile not found")
		return
	}
	utils.JSON(w, http.StatusOK, profile)
}

// SchoolProfiles lists every profile in a school.
func (c *ProfileController) SchoolProfiles(w http.ResponseWriter, r *http.Request) {
	school := r.URL.Query().Get("school")
	if school == "" {
		utils.JSONError(w, http.StatusBadRequest, "school query parameter is required")
		return
	}

	profiles, err := c.ProfileService.SchoolProfiles(r.Context(), school)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, profiles)
}
