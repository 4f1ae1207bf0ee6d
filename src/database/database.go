package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		currency TEXT NOT NULL,
		amount REAL NOT NULL,
		amount_usd REAL,
		state TEXT NOT NULL,
		created_date TIMESTAMP NOT NULL,
		merchant_category TEXT,
		merchant_country TEXT,
		entry_method TEXT,
		user_id TEXT NOT NULL,
		type TEXT,
		source TEXT
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		has_email BOOLEAN NOT NULL,
		phone_country TEXT,
		is_fraudster BOOLEAN NOT NULL DEFAULT FALSE,
		terms_version TEXT,
		created_date TIMESTAMP NOT NULL,
		state TEXT NOT NULL,
		country TEXT,
		birth_year INTEGER,
		kyc TEXT,
		failed_sign_in_attempts INTEGER
	);

	CREATE TABLE IF NOT EXISTS fx_rates (
		ts TIMESTAMP NOT NULL,
		base_ccy TEXT NOT NULL,
		ccy TEXT NOT NULL,
		rate REAL,
		PRIMARY KEY (ts, base_ccy, ccy)
	);

	CREATE TABLE IF NOT EXISTS currency_details (
		ccy TEXT PRIMARY KEY,
		iso_code INTEGER,
		exponent INTEGER,
		is_crypto BOOLEAN NOT NULL
	);

	CREATE TABLE IF NOT EXISTS predictions (
		user_id TEXT PRIMARY KEY,
		prediction INTEGER NOT NULL,
		confidence REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	`

	if _, err := DB.Exec(createTableStatement); err != nil {
		stdlog.Fatalf("failed creating tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database schema ready", "databasePath", databasePath)
	}
}

// bulkLoad runs inserts inside a transaction so one failing row rolls back
// its table without touching tables committed earlier.
func bulkLoad(table, insert string, count int, bind func(i int) []any) error {
	dbTx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < count; i++ {
		if _, err := stmt.Exec(bind(i)...); err != nil {
			logger.L.Error("Error inserting row, rolling back table load", "table", table, "row", i, "error", err)
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return err
	}
	logger.L.Info("Table loaded", "table", table, "rows", count)
	return nil
}

func LoadTransactions(txs []models.Transaction) error {
	return bulkLoad("transactions",
		`INSERT OR REPLACE INTO transactions (id, currency, amount, amount_usd, state, created_date, merchant_category, merchant_country, entry_method, user_id, type, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(txs), func(i int) []any {
			t := txs[i]
			return []any{t.ID, t.Currency, t.Amount, t.AmountUSD, t.State, t.CreatedDate, t.MerchantCategory, t.MerchantCountry, t.EntryMethod, t.UserID, t.Type, t.Source}
		})
}

func LoadUsers(users []models.User) error {
	return bulkLoad("users",
		`INSERT OR REPLACE INTO users (id, has_email, phone_country, is_fraudster, terms_version, created_date, state, country, birth_year, kyc, failed_sign_in_attempts) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(users), func(i int) []any {
			u := users[i]
			return []any{u.ID, u.HasEmail, u.PhoneCountry, u.IsFraudster, u.TermsVersion, u.CreatedDate, u.State, u.Country, u.BirthYear, u.KYC, u.FailedSignInAttempts}
		})
}

func LoadFXRates(rates []models.FXRate) error {
	return bulkLoad("fx_rates",
		`INSERT OR REPLACE INTO fx_rates (ts, base_ccy, ccy, rate) VALUES (?, ?, ?, ?)`,
		len(rates), func(i int) []any {
			r := rates[i]
			return []any{r.TS, r.Base, r.Quote, r.Rate}
		})
}

func LoadCurrencyDetails(details []models.CurrencyDetail) error {
	return bulkLoad("currency_details",
		`INSERT OR REPLACE INTO currency_details (ccy, iso_code, exponent, is_crypto) VALUES (?, ?, ?, ?)`,
		len(details), func(i int) []any {
			d := details[i]
			return []any{d.Currency, d.ISOCode, d.Exponent, d.IsCrypto}
		})
}

func LoadPredictions(predictions []models.Prediction) error {
	return bulkLoad("predictions",
		`INSERT OR REPLACE INTO predictions (user_id, prediction, confidence) VALUES (?, ?, ?)`,
		len(predictions), func(i int) []any {
			p := predictions[i]
			return []any{p.UserID, p.Prediction, p.Confidence}
		})
}

// FetchPredictions reads back the persisted prediction table.
func FetchPredictions() ([]models.Prediction, error) {
	rows, err := DB.Query(`SELECT user_id, prediction, confidence FROM predictions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.UserID, &p.Prediction, &p.Confidence); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
