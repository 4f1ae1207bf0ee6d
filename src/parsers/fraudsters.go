package parsers

import (
	"io"

	"github.com/google/uuid"
	"github.com/username/fraudscore/src/logger"
)

type FraudsterParser struct{}

func NewFraudsterParser() *FraudsterParser {
	return &FraudsterParser{}
}

// Parse reads the training-time fraudster id list into a set.
func (p *FraudsterParser) Parse(file io.Reader) (map[string]bool, error) {
	header, records, err := readAll(file)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "fraudsters", "user_id"); err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(records))
	for _, record := range records {
		id := field(record, idx, "user_id")
		if _, err := uuid.Parse(id); err != nil {
			logger.L.Warn("Skipping fraudster row with invalid user id", "userID", id)
			continue
		}
		ids[id] = true
	}
	return ids, nil
}
