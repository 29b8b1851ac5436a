package controllers

import (
	"net/http"

	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// MatchController handles discovery and compatibility queries.
type MatchController struct {
	MatchService *services.MatchService
}

func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// SmartMatches runs filtered scoring over the caller's school pool. Each
// query parameter narrows the pool; "all" or absent means no filter.
func (c *MatchController) SmartMatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := services.MatchFilters{
		LookingFor:   query.Get("lookingFor"),
		Major:        query.Get("major"),
		Year:         query.Get("year"),
		AcademicGoal: query.Get("academicGoal"),
		LeisureGoal:  query.Get("leisureGoal"),
	}

	matches, err := c.MatchService.SmartMatches(r.Context(), utils.CallerID(r), filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, matches)
}

// TopMatches returns the caller's top ranked same-school matches.
func (c *MatchController) TopMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := c.MatchService.TopMatches(r.Context(), utils.CallerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// Compatibility returns the pairwise score between the caller and a target.
func (c *MatchController) Compatibility(w http.ResponseWriter, r *http.Request) {
	targetUserID := mux.Vars(r)["targetUserId"]

	result, err := c.MatchService.Compatibility(r.Context(), utils.CallerID(r), targetUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
