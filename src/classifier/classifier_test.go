package classifier_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/fraudscore/src/classifier"
	"github.com/username/fraudscore/src/processors"
)

func writeModel(t *testing.T, model classifier.LogisticModel) string {
	t.Helper()
	data, err := json.Marshal(model)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_ValidatesWeightWidth(t *testing.T) {
	path := writeModel(t, classifier.LogisticModel{Weights: []float64{1, 2, 3}})
	_, err := classifier.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := classifier.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLogisticModel_Predict(t *testing.T) {
	weights := make([]float64, processors.FeatureCount)
	weights[0] = 4
	path := writeModel(t, classifier.LogisticModel{Bias: -2, Weights: weights})

	model, err := classifier.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, model.Threshold) // defaulted

	positive := make([]float64, processors.FeatureCount)
	positive[0] = 1
	negative := make([]float64, processors.FeatureCount)

	assert.Equal(t, 1, model.Predict(positive))
	assert.Equal(t, 0, model.Predict(negative))

	for _, row := range [][]float64{positive, negative} {
		p := model.ProbaOfFraud(row)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}
