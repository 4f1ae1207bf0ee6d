package models

import "time"

// Transaction states observed in the raw data. Only COMPLETED matters for
// the first-success aggregate; the rest are carried through untouched.
const (
	TxStateCompleted = "COMPLETED"
	TxStateDeclined  = "DECLINED"
	TxStateFailed    = "FAILED"
	TxStateReverted  = "REVERTED"
)

// UserStateLocked triggers the fraud override regardless of the model score.
const UserStateLocked = "LOCKED"

// SourceMinos is the transaction source the per-user source indicator keys on.
const SourceMinos = "MINOS"

// UnknownCountry is the sentinel written over merchant country codes longer
// than three characters before the 3-to-2 letter lookup.
const UnknownCountry = "UNK"

// DefaultTermsVersion fills a missing terms_version so the latest-terms
// comparison stays total.
const DefaultTermsVersion = "1900-01-01"

// UnknownExponent marks a currency whose decimal exponent is not known.
// Such currencies are excluded from amount normalization.
const UnknownExponent = -1

// Transaction is one row of the transactions table. AmountUSD is derived by
// the currency processor; every other field comes straight from the source.
type Transaction struct {
	ID               string
	Currency         string
	Amount           float64
	AmountUSD        float64
	State            string
	CreatedDate      time.Time
	MerchantCategory string
	MerchantCountry  string
	EntryMethod      string
	UserID           string
	Type             string
	Source           string
}

// User is one row of the users table, augmented in place by the aggregation
// steps. IsFraudster is only meaningful at training time.
type User struct {
	ID                   string
	HasEmail             bool
	PhoneCountry         string
	IsFraudster          bool
	TermsVersion         string
	CreatedDate          time.Time
	State                string
	Country              string
	BirthYear            int
	KYC                  string
	FailedSignInAttempts int

	// Derived per-user aggregates, filled by the aggregation processor.
	FirstSuccess   bool
	CountriesMatch bool
	IDCheck        bool
	CappedMaxUSD   float64
	FrequentType   string
	FrequentSource string
	SourceIsMinos  bool
}

// FXRate is one long-form rate observation: on TS, one unit of Base bought
// Rate units of Quote.
type FXRate struct {
	TS    time.Time
	Base  string
	Quote string
	Rate  float64
}

// CurrencyDetail describes a currency's decimal exponent. Exponent is
// UnknownExponent when the source had no value.
type CurrencyDetail struct {
	Currency string
	ISOCode  int
	Exponent int
	IsCrypto bool
}

// CountryInfo is one row of the countries reference table.
type CountryInfo struct {
	Code  string // 2-letter ISO
	Code3 string // 3-letter ISO
}

// Prediction is the per-user output of a scoring run, after the locked
// override has been applied.
type Prediction struct {
	UserID     string  `json:"id"`
	Prediction int     `json:"prediction"`
	Confidence float64 `json:"confidence"`
}
