package services

import (
	"fmt"
	"io"
	"os"

	"github.com/username/fraudscore/src/config"
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/parsers"
)

// openInput opens one input file, wrapping a missing file in ErrMissingInput
// with a remediation hint for the operator.
func openInput(path, table string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s table expected at '%s'; set the corresponding *_PATH variable or place the file there", ErrMissingInput, table, path)
		}
		return nil, fmt.Errorf("opening %s table '%s': %w", table, path, err)
	}
	return file, nil
}

func parseInput[T any](path, table string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := openInput(path, table)
	if err != nil {
		return zero, err
	}
	defer file.Close()

	parsed, err := parse(file)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrParsingFailed, table, err)
	}
	return parsed, nil
}

// LoadInputs reads every raw table of a run from the configured paths. The
// fraudster id list is only read for training runs.
func LoadInputs(cfg *config.AppConfig, training bool) (PipelineInputs, error) {
	var in PipelineInputs
	var err error

	if in.Transactions, err = parseInput(cfg.TransactionsPath, "transactions", parsers.NewTransactionParser().Parse); err != nil {
		return in, err
	}
	if in.Users, err = parseInput(cfg.UsersPath, "users", parsers.NewUserParser().Parse); err != nil {
		return in, err
	}
	if in.Countries, err = parseInput(cfg.CountriesPath, "countries", parsers.NewCountryParser().Parse); err != nil {
		return in, err
	}
	if in.FXRates, err = parseInput(cfg.FXRatesPath, "fx_rates", parsers.NewFXRateParser().Parse); err != nil {
		return in, err
	}
	if in.CurrencyDetails, err = parseInput(cfg.CurrencyDetailsPath, "currency_details", parsers.NewCurrencyParser().Parse); err != nil {
		return in, err
	}
	if training {
		if in.FraudsterIDs, err = parseInput(cfg.FraudstersPath, "fraudsters", parsers.NewFraudsterParser().Parse); err != nil {
			return in, err
		}
	}

	logger.L.Info("Input tables loaded",
		"transactions", len(in.Transactions),
		"users", len(in.Users),
		"countries", len(in.Countries),
		"fxRates", len(in.FXRates),
		"currencies", len(in.CurrencyDetails),
		"training", training)
	return in, nil
}
