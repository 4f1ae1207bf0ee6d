package processors

import (
	"fmt"

	"github.com/username/fraudscore/src/models"
)

// Decision labels, in increasing order of severity.
const (
	DecisionNothing = "NOTHING: NON-FRAUDSTER"
	DecisionAlert   = "ALERT AGENT: POSSIBLE FRAUDSTER"
	DecisionLock    = "LOCK AND ALERT AGENT: LIKELY FRAUDSTER"
)

// Decision thresholds on the fraud probability. 0.6 itself is still a
// non-fraudster; 0.9 itself already locks.
const (
	alertThreshold = 0.6
	lockThreshold  = 0.9
)

// ErrUnknownUserID is returned when a decision is requested for a user id
// that is not part of the current prediction batch.
var ErrUnknownUserID = fmt.Errorf("user id not present in the prediction batch")

// Decide maps a fraud probability to its action label. Total over [0,1].
func Decide(confidence float64) string {
	switch {
	case confidence <= alertThreshold:
		return DecisionNothing
	case confidence < lockThreshold:
		return DecisionAlert
	default:
		return DecisionLock
	}
}

// ApplyLockedOverride forces the maximal fraud outcome for locked accounts,
// regardless of the model output.
func ApplyLockedOverride(pred models.Prediction, userState string) models.Prediction {
	if userState == models.UserStateLocked {
		pred.Prediction = 1
		pred.Confidence = 1
	}
	return pred
}

// Decision pairs a prediction with its action label.
type Decision struct {
	models.Prediction
	Label string `json:"decision"`
}

// DecisionSet is an explicit, run-scoped id-to-decision mapping built from
// one prediction batch. It replaces any notion of process-wide lookup state.
type DecisionSet struct {
	decisions map[string]Decision
}

func NewDecisionSet(predictions []models.Prediction) *DecisionSet {
	decisions := make(map[string]Decision, len(predictions))
	for _, p := range predictions {
		decisions[p.UserID] = Decision{Prediction: p, Label: Decide(p.Confidence)}
	}
	return &DecisionSet{decisions: decisions}
}

// Lookup returns the decision for a user id. Unknown ids are a hard error.
func (s *DecisionSet) Lookup(userID string) (Decision, error) {
	d, ok := s.decisions[userID]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s", ErrUnknownUserID, userID)
	}
	return d, nil
}

func (s *DecisionSet) Len() int {
	return len(s.decisions)
}
