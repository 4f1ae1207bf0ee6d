// Package classifier is the boundary to the externally trained model: an
// immutable artifact exposing a probability-of-fraud over a feature row.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/processors"
)

// Classifier is the capability the pipeline consumes. Implementations are
// trained elsewhere and loaded read-only.
type Classifier interface {
	// ProbaOfFraud returns the probability of the positive (fraud) class,
	// in [0,1].
	ProbaOfFraud(features []float64) float64
	// Predict returns the 0/1 class label.
	Predict(features []float64) int
}

// LogisticModel is a serialized logistic regression over the fixed feature
// order.
type LogisticModel struct {
	Bias      float64   `json:"bias"`
	Weights   []float64 `json:"weights"`
	Threshold float64   `json:"threshold"`
}

// Load reads a model artifact and validates its width against the feature
// contract.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading model file '%s': %w", path, err)
	}
	var model LogisticModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error unmarshalling model from '%s': %w", path, err)
	}
	if len(model.Weights) != processors.FeatureCount {
		return nil, fmt.Errorf("model '%s' has %d weights, feature matrix has %d columns",
			path, len(model.Weights), processors.FeatureCount)
	}
	if model.Threshold == 0 {
		model.Threshold = 0.5
	}
	logger.L.Info("Model loaded", "path", path, "weights", len(model.Weights), "threshold", model.Threshold)
	return &model, nil
}

func (m *LogisticModel) ProbaOfFraud(features []float64) float64 {
	z := m.Bias + floats.Dot(m.Weights, features)
	return 1 / (1 + math.Exp(-z))
}

func (m *LogisticModel) Predict(features []float64) int {
	if m.ProbaOfFraud(features) >= m.Threshold {
		return 1
	}
	return 0
}
