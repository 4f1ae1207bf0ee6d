package services_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/processors"
	"github.com/username/fraudscore/src/services"
)

// stubClassifier scores every row with a fixed probability.
type stubClassifier struct {
	proba float64
}

func (s stubClassifier) ProbaOfFraud(_ []float64) float64 { return s.proba }
func (s stubClassifier) Predict(_ []float64) int {
	if s.proba >= 0.5 {
		return 1
	}
	return 0
}

func day(d int) time.Time {
	return time.Date(2017, 6, d, 10, 0, 0, 0, time.UTC)
}

// testInputs builds a small batch covering four KYC categories and six
// transaction-type categories (five real plus one user with no transactions).
func testInputs() services.PipelineInputs {
	users := []models.User{
		{ID: "u1", KYC: "PASSED", Country: "GB", BirthYear: 1980, TermsVersion: "2018-09-20", State: "ACTIVE", CreatedDate: day(1)},
		{ID: "u2", KYC: "FAILED", Country: "RO", BirthYear: 1992, TermsVersion: "2017-01-01", State: "ACTIVE", CreatedDate: day(1)},
		{ID: "u3", KYC: "NONE", Country: "FR", BirthYear: 1985, TermsVersion: models.DefaultTermsVersion, State: "ACTIVE", CreatedDate: day(1)},
		{ID: "u4", KYC: "PENDING", Country: "GB", BirthYear: 1999, TermsVersion: "2018-09-20", State: "ACTIVE", CreatedDate: day(1)},
		{ID: "u5", KYC: "PASSED", Country: "ES", BirthYear: 1970, TermsVersion: "2017-01-01", State: "ACTIVE", CreatedDate: day(1)},
		{ID: "u6", KYC: "PASSED", Country: "GB", BirthYear: 1965, TermsVersion: "2018-09-20", State: models.UserStateLocked, CreatedDate: day(1)},
	}
	txs := []models.Transaction{
		{ID: "t1", UserID: "u1", Currency: "USD", Amount: 5000, State: models.TxStateCompleted, CreatedDate: day(2), Type: "CARD_PAYMENT", Source: "GAIA", MerchantCountry: "ROU"},
		{ID: "t2", UserID: "u2", Currency: "USD", Amount: 1200, State: models.TxStateDeclined, CreatedDate: day(2), Type: "TOPUP", Source: "MINOS", MerchantCountry: "ROU"},
		{ID: "t3", UserID: "u3", Currency: "USD", Amount: 900, State: models.TxStateCompleted, CreatedDate: day(3), Type: "ATM", Source: "GAIA", MerchantCountry: "FRA"},
		{ID: "t4", UserID: "u4", Currency: "USD", Amount: 2500, State: models.TxStateCompleted, CreatedDate: day(3), Type: "BANK_TRANSFER", Source: "GAIA", MerchantCountry: "GBR"},
		{ID: "t5", UserID: "u5", Currency: "USD", Amount: 80000, State: models.TxStateCompleted, CreatedDate: day(4), Type: "EXCHANGE", Source: "MINOS", MerchantCountry: "ESP"},
	}
	return services.PipelineInputs{
		Transactions: txs,
		Users:        users,
		Countries: []models.CountryInfo{
			{Code: "GB", Code3: "GBR"},
			{Code: "FR", Code3: "FRA"},
			{Code: "ES", Code3: "ESP"},
		},
		FXRates:         nil,
		CurrencyDetails: []models.CurrencyDetail{{Currency: "USD", Exponent: 2}},
		FraudsterIDs:    map[string]bool{"u2": true},
	}
}

func TestBuildTraining(t *testing.T) {
	pipeline := services.NewPipelineService()
	set, err := pipeline.BuildTraining(testInputs())
	require.NoError(t, err)

	require.Len(t, set.Matrix, 6)
	for _, row := range set.Matrix {
		assert.Len(t, row, processors.FeatureCount)
	}
	assert.Equal(t, []int{0, 1, 0, 0, 0, 0}, set.Labels)
	assert.Equal(t, []string{"u1", "u2", "u3", "u4", "u5", "u6"}, set.UserIDs)
	assert.Equal(t, "2018-09-20", set.Artifact.LatestTermsVersion)
}

func TestBuildInference_DeterministicWithFrozenArtifact(t *testing.T) {
	pipeline := services.NewPipelineService()
	in := testInputs()

	training, err := pipeline.BuildTraining(in)
	require.NoError(t, err)

	first, err := pipeline.BuildInference(in, training.Artifact)
	require.NoError(t, err)
	second, err := pipeline.BuildInference(in, training.Artifact)
	require.NoError(t, err)

	assert.Equal(t, first.Matrix, second.Matrix)
	assert.Equal(t, training.Matrix, first.Matrix)
}

func TestPredict_LockedOverride(t *testing.T) {
	pipeline := services.NewPipelineService()
	in := testInputs()

	training, err := pipeline.BuildTraining(in)
	require.NoError(t, err)
	set, err := pipeline.BuildInference(in, training.Artifact)
	require.NoError(t, err)

	predictions := pipeline.Predict(stubClassifier{proba: 0.2}, set)
	require.Len(t, predictions, 6)

	for _, p := range predictions[:5] {
		assert.Equal(t, 0, p.Prediction)
		assert.Equal(t, 0.2, p.Confidence)
	}
	// u6 is LOCKED: forced to the maximal fraud outcome.
	assert.Equal(t, 1, predictions[5].Prediction)
	assert.Equal(t, 1.0, predictions[5].Confidence)
}

func TestPredictionsCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.csv")
	predictions := []models.Prediction{
		{UserID: "u1", Prediction: 0, Confidence: 0.25},
		{UserID: "u2", Prediction: 1, Confidence: 0.975},
	}

	require.NoError(t, services.WritePredictionsCSV(path, predictions))

	loaded, err := services.ReadPredictionsCSV(path)
	require.NoError(t, err)
	assert.Equal(t, predictions, loaded)
}

func TestReadPredictionsCSV_MissingFileHint(t *testing.T) {
	_, err := services.ReadPredictionsCSV(filepath.Join(t.TempDir(), "none.csv"))
	require.ErrorIs(t, err, services.ErrMissingInput)
	assert.Contains(t, err.Error(), "predict command")
}
