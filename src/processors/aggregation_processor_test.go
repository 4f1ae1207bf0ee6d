package processors_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/processors"
)

func day(d int) time.Time {
	return time.Date(2017, 6, d, 12, 0, 0, 0, time.UTC)
}

func tx(id, userID string, created time.Time, fields models.Transaction) models.Transaction {
	fields.ID = id
	fields.UserID = userID
	fields.CreatedDate = created
	return fields
}

func TestAggregate_NoTransactionsDefaults(t *testing.T) {
	p := processors.NewAggregationProcessor()
	users := []models.User{{ID: "u1", Country: "GB"}}

	out := p.Aggregate(users, nil)

	u := out[0]
	assert.False(t, u.FirstSuccess)
	assert.False(t, u.CountriesMatch)
	assert.False(t, u.IDCheck)
	assert.Equal(t, 0.0, u.CappedMaxUSD)
	assert.Empty(t, u.FrequentType)
}

func TestAggregate_FirstSuccess(t *testing.T) {
	p := processors.NewAggregationProcessor()
	users := []models.User{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}
	txs := []models.Transaction{
		// u1: earliest transaction completed at $50 → success, even though a
		// later one failed.
		tx("a2", "u1", day(3), models.Transaction{State: models.TxStateFailed, AmountUSD: 900}),
		tx("a1", "u1", day(1), models.Transaction{State: models.TxStateCompleted, AmountUSD: 50}),
		// u2: earliest completed but under the $10 floor.
		tx("b1", "u2", day(1), models.Transaction{State: models.TxStateCompleted, AmountUSD: 9.99}),
		// u3: earliest declined, later success doesn't count.
		tx("c1", "u3", day(1), models.Transaction{State: models.TxStateDeclined, AmountUSD: 100}),
		tx("c2", "u3", day(2), models.Transaction{State: models.TxStateCompleted, AmountUSD: 100}),
	}

	out := p.Aggregate(users, txs)

	assert.True(t, out[0].FirstSuccess)
	assert.False(t, out[1].FirstSuccess)
	assert.False(t, out[2].FirstSuccess)
}

func TestAggregate_MostFrequentTieBreak(t *testing.T) {
	p := processors.NewAggregationProcessor()
	users := []models.User{{ID: "u1"}}
	txs := []models.Transaction{
		tx("a1", "u1", day(1), models.Transaction{Type: "TOPUP"}),
		tx("a2", "u1", day(2), models.Transaction{Type: "CARD_PAYMENT"}),
	}

	out := p.Aggregate(users, txs)

	// One of each: the lexicographically smaller value wins the tie,
	// whatever order the transactions arrive in.
	assert.Equal(t, "CARD_PAYMENT", out[0].FrequentType)

	reversed := []models.Transaction{txs[1], txs[0]}
	out = p.Aggregate(users, reversed)
	assert.Equal(t, "CARD_PAYMENT", out[0].FrequentType)
}

func TestAggregate_CountriesMatch(t *testing.T) {
	p := processors.NewAggregationProcessor()
	ref := processors.NewReferenceProcessor(nil) // manual overrides only
	users := []models.User{{ID: "u1", Country: "RO"}, {ID: "u2", Country: "GB"}}

	txs := ref.ResolveMerchantCountries([]models.Transaction{
		tx("a1", "u1", day(1), models.Transaction{MerchantCountry: "ROU"}),
		tx("b1", "u2", day(1), models.Transaction{MerchantCountry: "FRA"}),
	})
	out := p.Aggregate(users, txs)

	// ROU mapped to RO matches the registered country.
	assert.True(t, out[0].CountriesMatch)
	assert.False(t, out[1].CountriesMatch)
}

func TestAggregate_CappedMaxUSD(t *testing.T) {
	p := processors.NewAggregationProcessor()
	users := []models.User{{ID: "u1"}, {ID: "u2"}}
	txs := []models.Transaction{
		// u1: the 7000 is over the cap and ignored; max under cap is 4999.
		tx("a1", "u1", day(1), models.Transaction{AmountUSD: 4999}),
		tx("a2", "u1", day(2), models.Transaction{AmountUSD: 7000}),
		tx("a3", "u1", day(3), models.Transaction{AmountUSD: 12}),
		// u2: everything at or over the cap → 0.
		tx("b1", "u2", day(1), models.Transaction{AmountUSD: 5000}),
	}

	out := p.Aggregate(users, txs)

	assert.Equal(t, 4999.0, out[0].CappedMaxUSD)
	assert.Equal(t, 0.0, out[1].CappedMaxUSD)
}

func TestAggregate_IDCheck(t *testing.T) {
	p := processors.NewAggregationProcessor()
	users := []models.User{{ID: "u1"}, {ID: "u2"}}
	txs := []models.Transaction{
		tx("a1", "u1", day(1), models.Transaction{}),
	}

	out := p.Aggregate(users, txs)

	assert.True(t, out[0].IDCheck)
	assert.False(t, out[1].IDCheck)
}

func TestAggregate_SourceIsMinos(t *testing.T) {
	p := processors.NewAggregationProcessor()
	users := []models.User{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}
	txs := []models.Transaction{
		// u1: MINOS is the majority source.
		tx("a1", "u1", day(1), models.Transaction{Source: "MINOS"}),
		tx("a2", "u1", day(2), models.Transaction{Source: "MINOS"}),
		tx("a3", "u1", day(3), models.Transaction{Source: "GAIA"}),
		// u2: another source wins.
		tx("b1", "u2", day(1), models.Transaction{Source: "GAIA"}),
	}

	out := p.Aggregate(users, txs)

	assert.True(t, out[0].SourceIsMinos)
	assert.Equal(t, "MINOS", out[0].FrequentSource)
	assert.False(t, out[1].SourceIsMinos)
	// u3 has no transactions at all.
	assert.False(t, out[2].SourceIsMinos)
}

func TestTransactingUserIDs(t *testing.T) {
	txs := []models.Transaction{
		tx("a1", "u2", day(1), models.Transaction{}),
		tx("a2", "u1", day(1), models.Transaction{}),
		tx("a3", "u2", day(2), models.Transaction{}),
	}
	assert.Equal(t, []string{"u1", "u2"}, processors.TransactingUserIDs(txs))
}
