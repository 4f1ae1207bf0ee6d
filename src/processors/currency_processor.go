package processors

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/utils"
)

const (
	dailyRateCacheExpiration = 1 * time.Hour
	dailyRateCleanupInterval = 2 * time.Hour
)

// CurrencyProcessor converts raw integer transaction amounts into decimal
// currency units and then into USD using daily FX rates.
type CurrencyProcessor struct {
	exponents map[string]int
	// USD-based rate observations, grouped by quote currency.
	observations map[string][]models.FXRate
	dailyMeans   *cache.Cache
}

func NewCurrencyProcessor(details []models.CurrencyDetail, rates []models.FXRate) *CurrencyProcessor {
	exponents := make(map[string]int, len(details))
	for _, d := range details {
		if d.Exponent == models.UnknownExponent {
			logger.L.Debug("Currency has no known exponent, excluded from normalization", "currency", d.Currency)
			continue
		}
		exponents[d.Currency] = d.Exponent
	}

	observations := make(map[string][]models.FXRate)
	for _, r := range rates {
		if r.Base != "USD" {
			continue
		}
		observations[r.Quote] = append(observations[r.Quote], r)
	}

	return &CurrencyProcessor{
		exponents:    exponents,
		observations: observations,
		dailyMeans:   cache.New(dailyRateCacheExpiration, dailyRateCleanupInterval),
	}
}

// Normalize returns a new transaction slice with Amount converted to decimal
// currency units and AmountUSD filled. The input slice is not mutated.
//
// Fallbacks keep the batch total: a currency with no known exponent keeps its
// raw amount, and a missing FX rate leaves the normalized amount standing in
// as the USD figure.
func (p *CurrencyProcessor) Normalize(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	missingRates := 0
	for i, tx := range txs {
		exponent, known := p.exponents[tx.Currency]
		if known {
			tx.Amount = decimal.NewFromFloat(tx.Amount).Shift(int32(-exponent)).InexactFloat64()
		}

		switch {
		case !known, tx.Currency == "USD":
			tx.AmountUSD = tx.Amount
		default:
			rate, found := p.DailyRate(tx.Currency, tx.CreatedDate)
			if !found {
				missingRates++
				tx.AmountUSD = tx.Amount
			} else {
				tx.AmountUSD = tx.Amount * rate
			}
		}
		out[i] = tx
	}
	if missingRates > 0 {
		logger.L.Warn("FX rate not found for some transactions, kept normalized amount as USD figure", "count", missingRates)
	}
	return out
}

// DailyRate returns the mean USD rate for a currency on the calendar date of
// the given timestamp. Results are memoized per (currency, date).
func (p *CurrencyProcessor) DailyRate(currency string, ts time.Time) (float64, bool) {
	date := utils.DateOnly(ts)
	key := fmt.Sprintf("%s@%s", currency, date.Format(utils.DateFormat))

	if cached, found := p.dailyMeans.Get(key); found {
		return cached.(float64), true
	}

	var sum float64
	var n int
	for _, obs := range p.observations[currency] {
		if utils.DateOnly(obs.TS).Equal(date) {
			sum += obs.Rate
			n++
		}
	}
	if n == 0 {
		return 0, false
	}

	mean := sum / float64(n)
	p.dailyMeans.Set(key, mean, cache.DefaultExpiration)
	return mean, true
}
