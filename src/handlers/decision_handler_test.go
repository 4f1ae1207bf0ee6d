package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/fraudscore/src/handlers"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/processors"
)

func newServer() *httptest.Server {
	set := processors.NewDecisionSet([]models.Prediction{
		{UserID: "u1", Prediction: 1, Confidence: 0.95},
	})
	h := handlers.NewDecisionHandler(set)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/decisions/{id}", h.HandleGetDecision)
	return httptest.NewServer(mux)
}

func TestHandleGetDecision(t *testing.T) {
	server := newServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/decisions/u1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decision struct {
		ID         string  `json:"id"`
		Prediction int     `json:"prediction"`
		Confidence float64 `json:"confidence"`
		Decision   string  `json:"decision"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decision))
	assert.Equal(t, "u1", decision.ID)
	assert.Equal(t, 1, decision.Prediction)
	assert.Equal(t, processors.DecisionLock, decision.Decision)
}

func TestHandleGetDecision_UnknownID(t *testing.T) {
	server := newServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/decisions/nobody")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
