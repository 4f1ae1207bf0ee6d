package main

import (
	"bufio"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/username/fraudscore/src/classifier"
	"github.com/username/fraudscore/src/config"
	"github.com/username/fraudscore/src/database"
	"github.com/username/fraudscore/src/handlers"
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/processors"
	"github.com/username/fraudscore/src/services"
	"golang.org/x/time/rate"
)

func rateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: fraudscore <command>

Commands:
  load      ingest the raw CSV tables into the database
  train     build training features and fit the feature artifact
  predict   score the current batch and persist predictions
  decide    look up the decision for a single user id
  serve     serve decision lookups over HTTP`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	var err error
	switch os.Args[1] {
	case "load":
		err = runLoad()
	case "train":
		err = runTrain()
	case "predict":
		err = runPredict()
	case "decide":
		err = runDecide()
	case "serve":
		err = runServe()
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, services.ErrMissingInput) {
			// Operator error, not a crash: report the hint and exit cleanly.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.L.Error("Command failed", "command", os.Args[1], "error", err)
		stdlog.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

// runLoad mirrors the original batch bootstrap: parse every table, resolve
// reference data, normalize currency amounts and load the database. A
// failing table rolls back alone; tables already committed stay loaded.
func runLoad() error {
	in, err := services.LoadInputs(config.Cfg, true)
	if err != nil {
		return err
	}

	referenceProcessor := processors.NewReferenceProcessor(in.Countries)
	currencyProcessor := processors.NewCurrencyProcessor(in.CurrencyDetails, in.FXRates)
	txs := currencyProcessor.Normalize(referenceProcessor.ResolveMerchantCountries(in.Transactions))
	users := processors.ResolveFraudLabels(in.Users, in.FraudsterIDs)

	database.InitDB(config.Cfg.DatabasePath)

	loads := []struct {
		table string
		load  func() error
	}{
		{"transactions", func() error { return database.LoadTransactions(txs) }},
		{"users", func() error { return database.LoadUsers(users) }},
		{"fx_rates", func() error { return database.LoadFXRates(in.FXRates) }},
		{"currency_details", func() error { return database.LoadCurrencyDetails(in.CurrencyDetails) }},
	}
	failed := 0
	for _, l := range loads {
		if err := l.load(); err != nil {
			logger.L.Error("Table load rolled back", "table", l.table, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d table load(s) rolled back, see log for details", failed)
	}
	logger.L.Info("Database load complete",
		"databasePath", config.Cfg.DatabasePath,
		"transactions", len(txs),
		"users", len(users),
		"transactingUsers", len(processors.TransactingUserIDs(txs)))
	return nil
}

func runTrain() error {
	in, err := services.LoadInputs(config.Cfg, true)
	if err != nil {
		return err
	}

	pipeline := services.NewPipelineService()
	set, err := pipeline.BuildTraining(in)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(config.Cfg.ArtifactPath), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	if err := set.Artifact.Save(config.Cfg.ArtifactPath); err != nil {
		return err
	}
	return services.SaveMatrixSnapshot(config.Cfg.FeatureSnapshots, "train_features", set.Matrix, set.Labels)
}

func runPredict() error {
	in, err := services.LoadInputs(config.Cfg, false)
	if err != nil {
		return err
	}

	artifact, err := processors.LoadFeatureArtifact(config.Cfg.ArtifactPath)
	if err != nil {
		return err
	}
	model, err := classifier.Load(config.Cfg.ModelPath)
	if err != nil {
		return err
	}

	pipeline := services.NewPipelineService()
	set, err := pipeline.BuildInference(in, artifact)
	if err != nil {
		return err
	}
	predictions := pipeline.Predict(model, set)

	if err := services.WritePredictionsCSV(config.Cfg.PredictionsPath, predictions); err != nil {
		return err
	}
	database.InitDB(config.Cfg.DatabasePath)
	if err := database.LoadPredictions(predictions); err != nil {
		return fmt.Errorf("persisting predictions table: %w", err)
	}
	return services.SaveMatrixSnapshot(config.Cfg.FeatureSnapshots, "test_features", set.Matrix, nil)
}

func runDecide() error {
	decisions, err := loadDecisions()
	if err != nil {
		return err
	}

	fmt.Print("Please enter the user ID: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading user id: %w", err)
		}
		return fmt.Errorf("no user id given")
	}
	userID := strings.TrimSpace(scanner.Text())

	decision, err := decisions.Lookup(userID)
	if err != nil {
		return err
	}
	fmt.Println(decision.Label)
	return nil
}

func runServe() error {
	decisions, err := loadDecisions()
	if err != nil {
		return err
	}
	logger.L.Info("Decision set ready", "users", decisions.Len())

	decisionHandler := handlers.NewDecisionHandler(decisions)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/decisions/{id}", decisionHandler.HandleGetDecision)

	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RateLimitPerSecond), config.Cfg.RateLimitBurst)
	server := &http.Server{
		Addr:         ":" + config.Cfg.Port,
		Handler:      rateLimitMiddleware(limiter, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.L.Info("Server stopped gracefully.")
	return nil
}

// loadDecisions builds the run-scoped decision set from the persisted
// predictions, preferring the CSV and falling back to the database table.
func loadDecisions() (*processors.DecisionSet, error) {
	predictions, err := services.ReadPredictionsCSV(config.Cfg.PredictionsPath)
	if err != nil {
		if !errors.Is(err, services.ErrMissingInput) {
			return nil, err
		}
		logger.L.Warn("Predictions CSV missing, falling back to database", "path", config.Cfg.PredictionsPath)
		database.InitDB(config.Cfg.DatabasePath)
		var dbErr error
		predictions, dbErr = database.FetchPredictions()
		if dbErr != nil || len(predictions) == 0 {
			return nil, err // keep the remediation hint from the CSV path
		}
	}
	return processors.NewDecisionSet(predictions), nil
}
