package parsers

import (
	"io"
	"strconv"
	"strings"

	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/utils"
)

type CurrencyParser struct{}

func NewCurrencyParser() *CurrencyParser {
	return &CurrencyParser{}
}

// Parse reads the currency_details table. A currency with no exponent keeps
// the UnknownExponent sentinel, which excludes it from amount normalization.
func (p *CurrencyParser) Parse(file io.Reader) ([]models.CurrencyDetail, error) {
	header, records, err := readAll(file)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "currency_details", "currency", "iso_code", "exponent", "is_crypto"); err != nil {
		return nil, err
	}

	var details []models.CurrencyDetail
	for _, record := range records {
		ccy := strings.ToUpper(field(record, idx, "currency"))
		if ccy == "" {
			continue
		}
		exponent := models.UnknownExponent
		if v := field(record, idx, "exponent"); v != "" {
			// Exports occasionally carry exponents as "2.0".
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				exponent = int(f)
			}
		}
		isoCode := models.UnknownExponent
		if v := field(record, idx, "iso_code"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				isoCode = int(f)
			}
		}
		details = append(details, models.CurrencyDetail{
			Currency: ccy,
			ISOCode:  isoCode,
			Exponent: exponent,
			IsCrypto: utils.ParseBool(field(record, idx, "is_crypto")),
		})
	}
	return details, nil
}
