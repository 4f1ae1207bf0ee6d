package processors

import (
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
)

// manualCodeOverrides patches codes the automated countries table lacks or
// mis-maps. Applied after the table-derived entries so they always win.
var manualCodeOverrides = map[string]string{
	"ROU": "RO",
	"SRB": "CS",
	"NSW": "AU",
	"MNE": "CS",
}

// ReferenceProcessor resolves 3-letter merchant country codes to 2-letter
// ISO codes and attaches training-time fraud labels.
type ReferenceProcessor struct {
	codeLookup map[string]string
}

func NewReferenceProcessor(countries []models.CountryInfo) *ReferenceProcessor {
	lookup := make(map[string]string, len(countries)+len(manualCodeOverrides))
	for _, c := range countries {
		lookup[c.Code3] = c.Code
	}
	for code3, code := range manualCodeOverrides {
		lookup[code3] = code
	}
	logger.L.Debug("Country code lookup built", "entries", len(lookup))
	return &ReferenceProcessor{codeLookup: lookup}
}

// MapCode maps one merchant country code. Codes longer than three characters
// become the UNK sentinel first; codes without a lookup entry pass through.
func (p *ReferenceProcessor) MapCode(code string) string {
	if len(code) > 3 {
		code = models.UnknownCountry
	}
	if mapped, ok := p.codeLookup[code]; ok {
		return mapped
	}
	return code
}

// ResolveMerchantCountries returns a new transaction slice with every
// merchant country mapped to its 2-letter form.
func (p *ReferenceProcessor) ResolveMerchantCountries(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		tx.MerchantCountry = p.MapCode(tx.MerchantCountry)
		out[i] = tx
	}
	return out
}

// ResolveFraudLabels returns a new user slice with IsFraudster set iff the
// user's id appears in the externally supplied fraud id set.
func ResolveFraudLabels(users []models.User, fraudIDs map[string]bool) []models.User {
	out := make([]models.User, len(users))
	labeled := 0
	for i, u := range users {
		u.IsFraudster = fraudIDs[u.ID]
		if u.IsFraudster {
			labeled++
		}
		out[i] = u
	}
	logger.L.Info("Fraud labels resolved", "users", len(out), "fraudsters", labeled)
	return out
}
