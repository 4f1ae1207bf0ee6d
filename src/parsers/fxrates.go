package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/utils"
)

type FXRateParser struct{}

func NewFXRateParser() *FXRateParser {
	return &FXRateParser{}
}

// Parse reads the wide-form FX table (one timestamp column plus one column
// per "BBBQQQ" currency pair) and melts it into long-form rate rows. Empty
// cells are skipped; a malformed pair column fails the whole file since it
// indicates schema drift rather than a bad row.
func (p *FXRateParser) Parse(file io.Reader) ([]models.FXRate, error) {
	header, records, err := readAll(file)
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: fx_rates needs a timestamp column plus at least one currency pair", ErrSchemaMismatch)
	}

	// Column 0 is the timestamp (usually unnamed in the export); every other
	// column name must be a six-letter base+quote pair.
	type pair struct{ base, quote string }
	pairs := make([]pair, len(header))
	for i := 1; i < len(header); i++ {
		name := strings.ToUpper(strings.TrimSpace(header[i]))
		if len(name) != 6 {
			return nil, fmt.Errorf("%w: fx_rates column %q is not a currency pair", ErrSchemaMismatch, header[i])
		}
		pairs[i] = pair{base: name[:3], quote: name[3:]}
	}

	var rates []models.FXRate
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		ts, err := utils.ParseTimestamp(record[0])
		if err != nil {
			logger.L.Warn("Skipping fx_rates row with invalid timestamp", "ts", record[0])
			continue
		}
		for i := 1; i < len(record) && i < len(header); i++ {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			rate, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				logger.L.Warn("Skipping unparseable fx rate", "pair", header[i], "value", cell)
				continue
			}
			rates = append(rates, models.FXRate{
				TS:    ts,
				Base:  pairs[i].base,
				Quote: pairs[i].quote,
				Rate:  rate,
			})
		}
	}
	return rates, nil
}
