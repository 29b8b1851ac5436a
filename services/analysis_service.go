package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"bonded_server/models"
)

// AnalysisRequest carries everything the intro-analysis collaborator needs
// to compose a rationale for introducing two users.
type AnalysisRequest struct {
	From           models.Profile
	To             models.Profile
	Reason         string
	BondPrintScore *int
}

// IntroAnalysisClient is the external text-generation capability. Prompt
// construction and response parsing are the client's concern; callers only
// see the parsed analysis.
type IntroAnalysisClient interface {
	GenerateIntroAnalysis(ctx context.Context, req AnalysisRequest) (*models.IntroAnalysis, error)
}

// HTTPAnalysisClient calls a text-generation endpoint that accepts
// {prompt} and answers {analysis, score, highlights}. Every call is
// bounded by Timeout.
type HTTPAnalysisClient struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c *HTTPAnalysisClient) GenerateIntroAnalysis(ctx context.Context, req AnalysisRequest) (*models.IntroAnalysis, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"prompt": buildIntroPrompt(req)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis call returned status %d", resp.StatusCode)
	}

	var analysis models.IntroAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	if analysis.Analysis == "" || analysis.Score < 0 || analysis.Score > 100 {
		return nil, fmt.Errorf("malformed analysis response: %+v", analysis)
	}
	return &analysis, nil
}

func buildIntroPrompt(req AnalysisRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, warm introduction explaining why %s and %s should connect as %s.\n",
		req.From.Name, req.To.Name, req.Reason)
	fmt.Fprintf(&b, "User A: major=%s year=%s interests=%s goals=%s/%s\n",
		req.From.Major, req.From.Year, strings.Join(req.From.Interests, ","),
		strings.Join(req.From.Goals.Academic, ","), strings.Join(req.From.Goals.Leisure, ","))
	fmt.Fprintf(&b, "User B: major=%s year=%s interests=%s goals=%s/%s\n",
		req.To.Major, req.To.Year, strings.Join(req.To.Interests, ","),
		strings.Join(req.To.Goals.Academic, ","), strings.Join(req.To.Goals.Leisure, ","))
	if req.BondPrintScore != nil {
		fmt.Fprintf(&b, "Their Bond Print compatibility is %d/100.\n", *req.BondPrintScore)
	}
	b.WriteString(`Respond with JSON: {"analysis": string, "score": 0-100, "highlights": [string]}`)
	return b.String()
}

// Fallback scoring weights for the deterministic local analysis.
const (
	fallbackBaseScore      = 60
	fallbackInterestWeight = 5
	fallbackAcademicWeight = 10
	fallbackLeisureWeight  = 10
	fallbackScoreCap       = 90
)

var introReasonPhrases = map[string]string{
	models.IntroReasonRoommate:        "could be great roommates",
	models.IntroReasonFriends:         "could become good friends",
	models.IntroReasonStudyPartner:    "could be solid study partners",
	models.IntroReasonGoingOut:        "would have fun going out together",
	models.IntroReasonCollaborate:     "could collaborate on something great",
	models.IntroReasonNetwork:         "should connect professionally",
	models.IntroReasonEventBuddy:      "could hit campus events together",
	models.IntroReasonWorkoutPartner:  "could keep each other motivated at the gym",
	models.IntroReasonDiningCompanion: "would enjoy grabbing meals together",
}

// AnalysisService produces soft-intro rationales. The external client is
// optional; every request has a deterministic local answer, so a failed or
// slow collaborator never surfaces to the caller.
type AnalysisService struct {
	Client IntroAnalysisClient
}

func (as *AnalysisService) GenerateIntroAnalysis(ctx context.Context, req AnalysisRequest) *models.IntroAnalysis {
	if as.Client != nil {
		analysis, err := as.Client.GenerateIntroAnalysis(ctx, req)
		if err == nil {
			return analysis
		}
		log.Printf("⚠️ Analysis client failed, using local fallback: %v", err)
	}
	return as.localAnalysis(req)
}

// localAnalysis builds the rationale from attributes the two profiles
// genuinely share; highlights never name anything else.
func (as *AnalysisService) localAnalysis(req AnalysisRequest) *models.IntroAnalysis {
	sharedInterests := sharedValues(req.From.Interests, req.To.Interests)
	sharedAcademic := sharedValues(req.From.Goals.Academic, req.To.Goals.Academic)
	sharedLeisure := sharedValues(req.From.Goals.Leisure, req.To.Goals.Leisure)

	score := fallbackBaseScore +
		fallbackInterestWeight*len(sharedInterests) +
		fallbackAcademicWeight*len(sharedAcademic) +
		fallbackLeisureWeight*len(sharedLeisure)
	score = min(fallbackScoreCap, score)

	highlights := []string{}
	highlights = append(highlights, sharedInterests...)
	highlights = append(highlights, sharedAcademic...)
	highlights = append(highlights, sharedLeisure...)
	if req.From.Major != "" && req.From.Major == req.To.Major {
		highlights = append(highlights, req.From.Major)
	}

	phrase, ok := introReasonPhrases[req.Reason]
	if !ok {
		phrase = "could make a great connection"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You two %s.", phrase)
	if len(sharedInterests) > 0 {
		fmt.Fprintf(&b, " You both enjoy %s.", joinLimited(sharedInterests, 2))
	}
	if len(sharedAcademic) > 0 || len(sharedLeisure) > 0 {
		goals := append(append([]string{}, sharedAcademic...), sharedLeisure...)
		fmt.Fprintf(&b, " You share goals like %s.", joinLimited(goals, 2))
	}
	if req.From.Major != "" && req.From.Major == req.To.Major {
		fmt.Fprintf(&b, " You're both in %s.", req.From.Major)
	}

	return &models.IntroAnalysis{
		Analysis:   b.String(),
		Score:      score,
		Highlights: highlights,
	}
}
