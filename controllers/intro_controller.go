package controllers

import (
	"encoding/json"
	"net/http"

	"bonded_server/models"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// IntroController handles the soft-intro workflow and connection listing.
type IntroController struct {
	IntroService    *services.IntroService
	AnalysisService *services.AnalysisService
	MatchService    *services.MatchService
	ProfileService  *services.ProfileService
}

func NewIntroController(introService *services.IntroService, analysisService *services.AnalysisService, matchService *services.MatchService, profileService *services.ProfileService) *IntroController {
	return &IntroController{
		IntroService:    introService,
		AnalysisService: analysisService,
		MatchService:    matchService,
		ProfileService:  profileService,
	}
}

// buildAnalysisRequest loads both profiles and attaches the bond-print
// compatibility when both sides have one.
func (c *IntroController) buildAnalysisRequest(r *http.Request, toUserID, reason string) (*services.AnalysisRequest, error) {
	from, err := c.ProfileService.GetProfile(r.Context(), utils.CallerID(r))
	if err != nil {
		return nil, err
	}
	to, err := c.ProfileService.GetProfile(r.Context(), toUserID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, services.ErrNotFound
	}

	req := &services.AnalysisRequest{From: *from, To: *to, Reason: reason}
	if from.BondPrint != nil && to.BondPrint != nil {
		score := c.MatchService.BondPrintScore(from.BondPrint, to.BondPrint)
		req.BondPrintScore = &score
	}
	return req, nil
}

// GenerateAnalysis produces the intro rationale for a prospective intro.
// Never fails on collaborator errors; the local fallback always answers.
func (c *IntroController) GenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ToUserID string `json:"toUserId"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if request.ToUserID == "" || !models.ValidIntroReason(request.Reason) {
		utils.JSONError(w, http.StatusBadRequest, "toUserId and a valid reason are required")
		return
	}

	req, err := c.buildAnalysisRequest(r, request.ToUserID, request.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c.AnalysisService.GenerateIntroAnalysis(r.Context(), *req))
}

// SendIntro creates a pending soft intro. When the payload carries no
// analysis, one is generated server-side.
func (c *IntroController) SendIntro(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ToUserID string                `json:"toUserId"`
		Reason   string                `json:"reason"`
		Analysis *models.IntroAnalysis `json:"analysis,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	analysis := request.Analysis
	if analysis == nil && request.ToUserID != "" && models.ValidIntroReason(request.Reason) {
		if req, err := c.buildAnalysisRequest(r, request.ToUserID, request.Reason); err == nil {
			analysis = c.AnalysisService.GenerateIntroAnalysis(r.Context(), *req)
		}
	}

	intro, err := c.IntroService.SendIntro(r.Context(), utils.CallerID(r), request.ToUserID, request.Reason, analysis)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, intro)
}

func (c *IntroController) IncomingIntros(w http.ResponseWriter, r *http.Request) {
	intros, err := c.IntroService.IncomingIntros(r.Context(), utils.CallerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, intros)
}

func (c *IntroController) OutgoingIntros(w http.ResponseWriter, r *http.Request) {
	intros, err := c.IntroService.OutgoingIntros(r.Context(), utils.CallerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, intros)
}

func (c *IntroController) AcceptIntro(w http.ResponseWriter, r *http.Request) {
	intro, err := c.IntroService.AcceptIntro(r.Context(), utils.CallerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "intro": intro})
}

func (c *IntroController) DenyIntro(w http.ResponseWriter, r *http.Request) {
	intro, err := c.IntroService.DenyIntro(r.Context(), utils.CallerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "intro": intro})
}

func (c *IntroController) Connections(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.IntroService.Connections(r.Context(), utils.CallerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, profiles)
}
