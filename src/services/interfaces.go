package services

import (
	"fmt"

	"github.com/username/fraudscore/src/classifier"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/processors"
)

var (
	ErrParsingFailed = fmt.Errorf("parsing input table failed")
	ErrMissingInput  = fmt.Errorf("required input file is missing")
)

// PipelineInputs bundles the raw tables of one run. FraudsterIDs is only
// present for training runs.
type PipelineInputs struct {
	Transactions    []models.Transaction
	Users           []models.User
	Countries       []models.CountryInfo
	FXRates         []models.FXRate
	CurrencyDetails []models.CurrencyDetail
	FraudsterIDs    map[string]bool
}

// TrainingSet is the output of a training-time feature build.
type TrainingSet struct {
	Matrix   [][]float64
	Labels   []int
	UserIDs  []string
	Artifact *processors.FeatureArtifact
}

// InferenceSet is the output of an inference-time feature build. Users is
// aligned row-for-row with Matrix so the locked override can consult state.
type InferenceSet struct {
	Matrix [][]float64
	Users  []models.User
}

// PipelineService turns raw tables into feature matrices and predictions.
type PipelineService interface {
	BuildTraining(in PipelineInputs) (*TrainingSet, error)
	BuildInference(in PipelineInputs, artifact *processors.FeatureArtifact) (*InferenceSet, error)
	Predict(clf classifier.Classifier, set *InferenceSet) []models.Prediction
}
