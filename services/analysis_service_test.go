package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bonded_server/models"
	"bonded_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingAnalysisClient struct{}

func (failingAnalysisClient) GenerateIntroAnalysis(context.Context, services.AnalysisRequest) (*models.IntroAnalysis, error) {
	return nil, errors.New("upstream unavailable")
}

func analysisFixtureRequest() services.AnalysisRequest {
	from := profileFixture("alice")
	from.Interests = []string{"Music", "Travel", "Art"}
	from.Goals.Academic = []string{"research"}
	from.Goals.Leisure = []string{"hiking"}
	from.Major = "CS"

	to := profileFixture("bob")
	to.Interests = []string{"Music", "Travel", "Chess"}
	to.Goals.Academic = []string{"research"}
	to.Goals.Leisure = []string{"gaming"}
	to.Major = "CS"

	return services.AnalysisRequest{From: from, To: to, Reason: models.IntroReasonStudyPartner}
}

func TestAnalysisFallsBackWhenClientFails(t *testing.T) {
	svc := &services.AnalysisService{Client: failingAnalysisClient{}}
	req := analysisFixtureRequest()

	analysis := svc.GenerateIntroAnalysis(context.Background(), req)
	require.NotNil(t, analysis)

	// 60 base + 5*2 interests + 10*1 academic = 80
	assert.Equal(t, 80, analysis.Score)
	assert.NotEmpty(t, analysis.Analysis)

	// Highlights only name attributes the two genuinely share.
	assert.ElementsMatch(t, []string{"Music", "Travel", "research", "CS"}, analysis.Highlights)
	assert.NotContains(t, analysis.Highlights, "Art")
	assert.NotContains(t, analysis.Highlights, "Chess")

	// Determinism: same inputs, same output.
	assert.Equal(t, analysis, svc.GenerateIntroAnalysis(context.Background(), req))
}

func TestAnalysisFallbackScoreCap(t *testing.T) {
	svc := &services.AnalysisService{}

	req := analysisFixtureRequest()
	req.From.Goals.Leisure = []string{"g1", "g2", "g3", "g4"}
	req.To.Goals.Leisure = req.From.Goals.Leisure

	analysis := svc.GenerateIntroAnalysis(context.Background(), req)
	assert.Equal(t, 90, analysis.Score)
}

func TestAnalysisFallbackWithNothingShared(t *testing.T) {
	svc := &services.AnalysisService{}

	req := services.AnalysisRequest{
		From:   profileFixture("alice"),
		To:     profileFixture("bob"),
		Reason: models.IntroReasonFriends,
	}

	analysis := svc.GenerateIntroAnalysis(context.Background(), req)
	assert.Equal(t, 60, analysis.Score)
	assert.Empty(t, analysis.Highlights)
	assert.NotEmpty(t, analysis.Analysis)
}

func TestHTTPAnalysisClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"analysis":"You two should meet.","score":72,"highlights":["Music"]}`))
	}))
	defer server.Close()

	client := &services.HTTPAnalysisClient{Endpoint: server.URL, APIKey: "sk-test", Timeout: time.Second}
	analysis, err := client.GenerateIntroAnalysis(context.Background(), analysisFixtureRequest())
	require.NoError(t, err)
	assert.Equal(t, "You two should meet.", analysis.Analysis)
	assert.Equal(t, 72, analysis.Score)
	assert.Equal(t, []string{"Music"}, analysis.Highlights)
}

func TestHTTPAnalysisClientRejectsMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"empty analysis":  `{"analysis":"","score":50}`,
		"score too high":  `{"analysis":"ok","score":150}`,
		"negative score":  `{"analysis":"ok","score":-1}`,
		"not json at all": `oops`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := &services.HTTPAnalysisClient{Endpoint: server.URL, Timeout: time.Second}
			_, err := client.GenerateIntroAnalysis(context.Background(), analysisFixtureRequest())
			assert.Error(t, err)
		})
	}
}

func TestHTTPAnalysisClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &services.HTTPAnalysisClient{Endpoint: server.URL, Timeout: time.Second}
	_, err := client.GenerateIntroAnalysis(context.Background(), analysisFixtureRequest())
	assert.Error(t, err)
}

func TestHTTPAnalysisClientTimeout(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client := &services.HTTPAnalysisClient{Endpoint: server.URL, Timeout: 50 * time.Millisecond}
	_, err := client.GenerateIntroAnalysis(context.Background(), analysisFixtureRequest())
	assert.Error(t, err)
}
