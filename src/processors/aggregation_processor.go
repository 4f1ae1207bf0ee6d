package processors

import (
	"sort"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
)

const (
	// A first transaction must reach this USD amount to count as a success.
	firstSuccessMinUSD = 10
	// Transactions at or above this USD amount are ignored by the capped
	// maximum aggregate.
	maxAmountCapUSD = 5000
)

// AggregationProcessor derives the per-user aggregates from the normalized
// transactions table. All outputs are left-joined onto the user rows with
// false/0 defaults for users that have no qualifying transactions.
type AggregationProcessor struct{}

func NewAggregationProcessor() *AggregationProcessor {
	return &AggregationProcessor{}
}

// Aggregate returns a new user slice augmented with FirstSuccess,
// CountriesMatch, IDCheck, CappedMaxUSD, the most-frequent transaction type
// and source, and whether that source is MINOS.
func (p *AggregationProcessor) Aggregate(users []models.User, txs []models.Transaction) []models.User {
	byUser := groupByUser(txs)

	frequentCountry := mostFrequent(byUser, func(tx models.Transaction) string { return tx.MerchantCountry })
	frequentType := mostFrequent(byUser, func(tx models.Transaction) string { return tx.Type })
	frequentSource := mostFrequent(byUser, func(tx models.Transaction) string { return tx.Source })
	firstSuccess := firstSuccessByUser(byUser)
	cappedMax := cappedMaxUSDByUser(byUser)

	out := make([]models.User, len(users))
	for i, u := range users {
		_, u.IDCheck = byUser[u.ID]
		u.FirstSuccess = firstSuccess[u.ID]
		u.CappedMaxUSD = cappedMax[u.ID]
		u.FrequentType = frequentType[u.ID]
		u.FrequentSource = frequentSource[u.ID]
		u.SourceIsMinos = u.FrequentSource == models.SourceMinos
		u.CountriesMatch = u.Country != "" && frequentCountry[u.ID] == u.Country
		out[i] = u
	}
	logger.L.Info("Per-user aggregates computed", "users", len(out), "transactingUsers", len(byUser))
	return out
}

func groupByUser(txs []models.Transaction) map[string][]models.Transaction {
	byUser := make(map[string][]models.Transaction)
	for _, tx := range txs {
		byUser[tx.UserID] = append(byUser[tx.UserID], tx)
	}
	return byUser
}

// mostFrequent picks, per user, the attribute value with the highest
// occurrence count. Ties go to the lexicographically smallest value so the
// result does not depend on input ordering. Empty values are not counted.
func mostFrequent(byUser map[string][]models.Transaction, attr func(models.Transaction) string) map[string]string {
	result := make(map[string]string, len(byUser))
	for userID, txs := range byUser {
		counts := make(map[string]int)
		for _, tx := range txs {
			if v := attr(tx); v != "" {
				counts[v]++
			}
		}
		var best string
		bestCount := 0
		for value, count := range counts {
			if count > bestCount || (count == bestCount && value < best) {
				best = value
				bestCount = count
			}
		}
		if bestCount > 0 {
			result[userID] = best
		}
	}
	return result
}

// firstSuccessByUser marks users whose earliest transaction completed with a
// USD amount of at least firstSuccessMinUSD.
func firstSuccessByUser(byUser map[string][]models.Transaction) map[string]bool {
	result := make(map[string]bool, len(byUser))
	for userID, txs := range byUser {
		first := txs[0]
		for _, tx := range txs[1:] {
			if tx.CreatedDate.Before(first.CreatedDate) ||
				(tx.CreatedDate.Equal(first.CreatedDate) && tx.ID < first.ID) {
				first = tx
			}
		}
		if first.State == models.TxStateCompleted && first.AmountUSD >= firstSuccessMinUSD {
			result[userID] = true
		}
	}
	return result
}

// cappedMaxUSDByUser returns the largest USD amount strictly below the cap,
// per user. Users with no transaction under the cap are absent (join default 0).
func cappedMaxUSDByUser(byUser map[string][]models.Transaction) map[string]float64 {
	result := make(map[string]float64, len(byUser))
	for userID, txs := range byUser {
		max, found := 0.0, false
		for _, tx := range txs {
			if tx.AmountUSD < maxAmountCapUSD && (!found || tx.AmountUSD > max) {
				max = tx.AmountUSD
				found = true
			}
		}
		if found {
			result[userID] = max
		}
	}
	return result
}

// TransactingUserIDs returns the sorted set of user ids that appear in the
// transactions table.
func TransactingUserIDs(txs []models.Transaction) []string {
	seen := make(map[string]bool)
	for _, tx := range txs {
		seen[tx.UserID] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
