package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/processors"
	"github.com/username/fraudscore/src/utils"
)

// DecisionHandler serves per-user decision lookups over one prediction
// batch. The DecisionSet is immutable for the lifetime of the server.
type DecisionHandler struct {
	decisions *processors.DecisionSet
}

func NewDecisionHandler(decisions *processors.DecisionSet) *DecisionHandler {
	return &DecisionHandler{decisions: decisions}
}

// HandleGetDecision answers GET /api/decisions/{id}.
func (h *DecisionHandler) HandleGetDecision(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		utils.SendJSONError(w, "missing user id", http.StatusBadRequest)
		return
	}

	decision, err := h.decisions.Lookup(userID)
	if err != nil {
		if errors.Is(err, processors.ErrUnknownUserID) {
			utils.SendJSONError(w, "user id not present in the prediction batch", http.StatusNotFound)
			return
		}
		logger.L.Error("Decision lookup failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decision)
}
