package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/utils"
)

var predictionsHeader = []string{"id", "prediction", "confidence"}

// WritePredictionsCSV persists a prediction batch for the decision surfaces.
func WritePredictionsCSV(path string, predictions []models.Prediction) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating predictions file '%s': %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(predictionsHeader); err != nil {
		return fmt.Errorf("writing predictions header: %w", err)
	}
	for _, p := range predictions {
		record := []string{
			p.UserID,
			strconv.Itoa(p.Prediction),
			strconv.FormatFloat(utils.RoundFloat(p.Confidence, 6), 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing prediction for user %s: %w", p.UserID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing predictions file '%s': %w", path, err)
	}
	logger.L.Info("Predictions written", "path", path, "rows", len(predictions))
	return nil
}

// ReadPredictionsCSV loads a previously persisted prediction batch. A
// missing file carries the remediation hint of the error taxonomy.
func ReadPredictionsCSV(path string) ([]models.Prediction, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: predictions file '%s' not found; run the predict command first", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("opening predictions file '%s': %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading predictions file '%s': %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("predictions file '%s' is empty", path)
	}

	var predictions []models.Prediction
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		prediction, err := strconv.Atoi(record[1])
		if err != nil {
			logger.L.Warn("Skipping prediction row with invalid label", "userID", record[0])
			continue
		}
		confidence, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			logger.L.Warn("Skipping prediction row with invalid confidence", "userID", record[0])
			continue
		}
		predictions = append(predictions, models.Prediction{
			UserID:     record[0],
			Prediction: prediction,
			Confidence: confidence,
		})
	}
	return predictions, nil
}

// SaveMatrixSnapshot writes a feature matrix (and optional labels) as JSON
// next to the fitted artifacts.
func SaveMatrixSnapshot(dir, name string, matrix [][]float64, labels []int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory '%s': %w", dir, err)
	}

	snapshot := struct {
		Matrix [][]float64 `json:"matrix"`
		Labels []int       `json:"labels,omitempty"`
	}{Matrix: matrix, Labels: labels}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling feature snapshot: %w", err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing feature snapshot '%s': %w", path, err)
	}
	logger.L.Info("Feature snapshot saved", "path", path, "rows", len(matrix))
	return nil
}
