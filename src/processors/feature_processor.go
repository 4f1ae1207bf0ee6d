package processors

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
)

const (
	// Fixed one-hot widths. The trained model depends on these, so a
	// training batch that yields different vocabulary sizes is an error.
	KYCWidth  = 4
	TypeWidth = 6

	// FeatureCount is the fixed width of the assembled matrix:
	// KYC one-hot, birth year, GB indicator, type one-hot, terms-latest,
	// id-check, capped USD amount, first-success, countries-match.
	FeatureCount = KYCWidth + 1 + 1 + TypeWidth + 1 + 1 + 1 + 1 + 1
)

// Scaler holds the column-wise standardization parameters fit at training
// time. Transform never refits.
type Scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column mean and standard deviation. Columns with
// zero deviation standardize with a divisor of 1 so Transform stays total.
func FitScaler(matrix [][]float64) Scaler {
	if len(matrix) == 0 {
		return Scaler{}
	}
	width := len(matrix[0])
	s := Scaler{Means: make([]float64, width), Stds: make([]float64, width)}
	column := make([]float64, len(matrix))
	for j := 0; j < width; j++ {
		for i := range matrix {
			column[i] = matrix[i][j]
		}
		s.Means[j] = stat.Mean(column, nil)
		std := stat.StdDev(column, nil)
		if std == 0 {
			std = 1
		}
		s.Stds[j] = std
	}
	return s
}

// Transform standardizes a matrix with the fitted parameters, returning a
// new matrix.
func (s Scaler) Transform(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("feature row has %d columns, scaler was fit on %d", len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FeatureArtifact bundles everything fit during training that inference
// must reuse unchanged: the one-hot vocabularies, the latest terms version
// and the scaler state.
type FeatureArtifact struct {
	KYC                Vocabulary `json:"kyc"`
	TransactionType    Vocabulary `json:"transaction_type"`
	LatestTermsVersion string     `json:"latest_terms_version"`
	Scaler             Scaler     `json:"scaler"`
}

// Save writes the artifact as JSON.
func (a *FeatureArtifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling feature artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing feature artifact to '%s': %w", path, err)
	}
	logger.L.Info("Feature artifact saved", "path", path)
	return nil
}

// LoadFeatureArtifact reads a previously fitted artifact.
func LoadFeatureArtifact(path string) (*FeatureArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading feature artifact '%s': %w", path, err)
	}
	var artifact FeatureArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("error unmarshalling feature artifact from '%s': %w", path, err)
	}
	logger.L.Info("Feature artifact loaded", "path", path,
		"kycWidth", artifact.KYC.Width(), "typeWidth", artifact.TransactionType.Width())
	return &artifact, nil
}

// FeatureProcessor assembles the fixed-order standardized feature matrix.
type FeatureProcessor struct{}

func NewFeatureProcessor() *FeatureProcessor {
	return &FeatureProcessor{}
}

// Fit derives the vocabularies, latest terms version and scaler from an
// aggregated training batch and returns the artifact together with the
// standardized training matrix.
func (p *FeatureProcessor) Fit(users []models.User) (*FeatureArtifact, [][]float64, error) {
	kycValues := make([]string, len(users))
	typeValues := make([]string, len(users))
	for i, u := range users {
		kycValues[i] = u.KYC
		typeValues[i] = u.FrequentType
	}

	artifact := &FeatureArtifact{
		KYC:                NewVocabulary(kycValues),
		TransactionType:    NewVocabulary(typeValues),
		LatestTermsVersion: LatestTermsVersion(users),
	}
	if w := artifact.KYC.Width(); w != KYCWidth {
		return nil, nil, fmt.Errorf("training batch produced %d KYC categories, expected %d", w, KYCWidth)
	}
	if w := artifact.TransactionType.Width(); w != TypeWidth {
		return nil, nil, fmt.Errorf("training batch produced %d transaction type categories, expected %d", w, TypeWidth)
	}

	raw := p.assemble(users, artifact)
	artifact.Scaler = FitScaler(raw)
	matrix, err := artifact.Scaler.Transform(raw)
	if err != nil {
		return nil, nil, err
	}
	logger.L.Info("Feature matrix fit", "rows", len(matrix), "columns", FeatureCount,
		"latestTermsVersion", artifact.LatestTermsVersion)
	return artifact, matrix, nil
}

// Transform assembles and standardizes a batch with a previously fitted
// artifact, never refitting any parameter.
func (p *FeatureProcessor) Transform(users []models.User, artifact *FeatureArtifact) ([][]float64, error) {
	if len(artifact.Scaler.Means) != FeatureCount {
		return nil, fmt.Errorf("feature artifact scaler has %d columns, expected %d", len(artifact.Scaler.Means), FeatureCount)
	}
	return artifact.Scaler.Transform(p.assemble(users, artifact))
}

// assemble builds the unscaled fixed-order matrix, one row per user,
// aligned row-for-row with the input slice.
func (p *FeatureProcessor) assemble(users []models.User, artifact *FeatureArtifact) [][]float64 {
	matrix := make([][]float64, len(users))
	for i, u := range users {
		row := make([]float64, 0, FeatureCount)
		row = append(row, artifact.KYC.Encode(u.KYC)...)
		row = append(row, float64(u.BirthYear))
		row = append(row, gbIndicator(u))
		row = append(row, artifact.TransactionType.Encode(u.FrequentType)...)
		row = append(row, boolFeature(u.TermsVersion == artifact.LatestTermsVersion))
		row = append(row, boolFeature(u.IDCheck))
		row = append(row, u.CappedMaxUSD)
		row = append(row, boolFeature(u.FirstSuccess))
		row = append(row, boolFeature(u.CountriesMatch))
		matrix[i] = row
	}
	return matrix
}

// Labels extracts the 0/1 fraud label vector from a training batch.
func Labels(users []models.User) []int {
	labels := make([]int, len(users))
	for i, u := range users {
		if u.IsFraudster {
			labels[i] = 1
		}
	}
	return labels
}
