package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/utils"
)

var transactionColumns = []string{
	"id", "currency", "amount", "state", "created_date",
	"merchant_category", "merchant_country", "entry_method",
	"user_id", "type", "source",
}

type TransactionParser struct{}

func NewTransactionParser() *TransactionParser {
	return &TransactionParser{}
}

// Parse reads the transactions table. Rows with an unparseable id, user id,
// amount or created date are skipped with a warning; the raw integer amount
// is kept as-is (the currency processor owns normalization).
func (p *TransactionParser) Parse(file io.Reader) ([]models.Transaction, error) {
	header, records, err := readAll(file)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "transactions", transactionColumns...); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(records))
	for _, record := range records {
		id := field(record, idx, "id")
		if _, err := uuid.Parse(id); err != nil {
			logger.L.Warn("Skipping transaction with invalid id", "id", id)
			continue
		}
		userID := field(record, idx, "user_id")
		if _, err := uuid.Parse(userID); err != nil {
			logger.L.Warn("Skipping transaction with invalid user id", "id", id, "userID", userID)
			continue
		}
		amount, err := strconv.ParseFloat(field(record, idx, "amount"), 64)
		if err != nil {
			logger.L.Warn("Skipping transaction with invalid amount", "id", id, "amount", field(record, idx, "amount"))
			continue
		}
		created, err := utils.ParseTimestamp(field(record, idx, "created_date"))
		if err != nil {
			logger.L.Warn("Skipping transaction with invalid created date", "id", id, "error", err)
			continue
		}

		txs = append(txs, models.Transaction{
			ID:               id,
			Currency:         strings.ToUpper(field(record, idx, "currency")),
			Amount:           amount,
			State:            field(record, idx, "state"),
			CreatedDate:      created,
			MerchantCategory: field(record, idx, "merchant_category"),
			MerchantCountry:  field(record, idx, "merchant_country"),
			EntryMethod:      field(record, idx, "entry_method"),
			UserID:           userID,
			Type:             field(record, idx, "type"),
			Source:           field(record, idx, "source"),
		})
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("transactions table contained no usable rows")
	}
	return txs, nil
}
