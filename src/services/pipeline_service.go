package services

import (
	"fmt"
	"time"

	"github.com/username/fraudscore/src/classifier"
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/processors"
)

type pipelineServiceImpl struct {
	featureProcessor     *processors.FeatureProcessor
	aggregationProcessor *processors.AggregationProcessor
}

func NewPipelineService() PipelineService {
	return &pipelineServiceImpl{
		featureProcessor:     processors.NewFeatureProcessor(),
		aggregationProcessor: processors.NewAggregationProcessor(),
	}
}

// prepare runs the shared front half of both modes: merchant country
// resolution, currency normalization and the per-user aggregation.
func (s *pipelineServiceImpl) prepare(in PipelineInputs) []models.User {
	referenceProcessor := processors.NewReferenceProcessor(in.Countries)
	currencyProcessor := processors.NewCurrencyProcessor(in.CurrencyDetails, in.FXRates)

	txs := referenceProcessor.ResolveMerchantCountries(in.Transactions)
	txs = currencyProcessor.Normalize(txs)
	return s.aggregationProcessor.Aggregate(in.Users, txs)
}

func (s *pipelineServiceImpl) BuildTraining(in PipelineInputs) (*TrainingSet, error) {
	start := time.Now()
	logger.L.Info("BuildTraining START",
		"transactions", len(in.Transactions), "users", len(in.Users))

	users := processors.ResolveFraudLabels(in.Users, in.FraudsterIDs)
	in.Users = users
	users = s.prepare(in)

	artifact, matrix, err := s.featureProcessor.Fit(users)
	if err != nil {
		return nil, fmt.Errorf("fitting feature matrix: %w", err)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	logger.L.Info("BuildTraining END", "rows", len(matrix), "duration", time.Since(start))
	return &TrainingSet{
		Matrix:   matrix,
		Labels:   processors.Labels(users),
		UserIDs:  ids,
		Artifact: artifact,
	}, nil
}

func (s *pipelineServiceImpl) BuildInference(in PipelineInputs, artifact *processors.FeatureArtifact) (*InferenceSet, error) {
	start := time.Now()
	logger.L.Info("BuildInference START",
		"transactions", len(in.Transactions), "users", len(in.Users))

	users := s.prepare(in)
	matrix, err := s.featureProcessor.Transform(users, artifact)
	if err != nil {
		return nil, fmt.Errorf("transforming feature matrix: %w", err)
	}

	logger.L.Info("BuildInference END", "rows", len(matrix), "duration", time.Since(start))
	return &InferenceSet{Matrix: matrix, Users: users}, nil
}

// Predict scores every feature row and applies the locked-account override.
// The result is aligned with, and keyed by, the inference batch's user ids.
func (s *pipelineServiceImpl) Predict(clf classifier.Classifier, set *InferenceSet) []models.Prediction {
	predictions := make([]models.Prediction, len(set.Users))
	overridden := 0
	for i, u := range set.Users {
		row := set.Matrix[i]
		pred := models.Prediction{
			UserID:     u.ID,
			Prediction: clf.Predict(row),
			Confidence: clf.ProbaOfFraud(row),
		}
		withOverride := processors.ApplyLockedOverride(pred, u.State)
		if withOverride != pred {
			overridden++
		}
		predictions[i] = withOverride
	}
	logger.L.Info("Predictions computed", "users", len(predictions), "lockedOverrides", overridden)
	return predictions
}
