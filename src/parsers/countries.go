package parsers

import (
	"io"
	"strings"

	"github.com/username/fraudscore/src/models"
)

type CountryParser struct{}

func NewCountryParser() *CountryParser {
	return &CountryParser{}
}

// Parse reads the countries reference table. Rows missing either code are
// dropped, mirroring the cleanup the lookup builder expects.
func (p *CountryParser) Parse(file io.Reader) ([]models.CountryInfo, error) {
	header, records, err := readAll(file)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "countries", "code", "code3"); err != nil {
		return nil, err
	}

	var countries []models.CountryInfo
	for _, record := range records {
		code := strings.ToUpper(field(record, idx, "code"))
		code3 := strings.ToUpper(field(record, idx, "code3"))
		if code == "" || code3 == "" {
			continue
		}
		countries = append(countries, models.CountryInfo{Code: code, Code3: code3})
	}
	return countries, nil
}
