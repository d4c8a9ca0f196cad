package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dmesa/accounts-service/internal/config"
	"github.com/dmesa/accounts-service/internal/logging"
	"github.com/dmesa/accounts-service/internal/repository"
	"github.com/dmesa/accounts-service/internal/service"
	"github.com/dmesa/accounts-service/internal/store"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "./seed-data", "Directory containing accounts.json")
		accountsPath = flag.String("accounts", "", "Path to accounts.json (overrides dataset-dir)")
		workers      = flag.Int("workers", 4, "Number of concurrent workers for seeding")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	accountsFile, err := resolveDatasetPath(*datasetDir, *accountsPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	accounts, err := loadAccountInputs(accountsFile)
	if err != nil {
		logger.Error("failed to load accounts", "error", err, "path", accountsFile)
		os.Exit(1)
	}
	if len(accounts) == 0 {
		logger.Error("accounts dataset empty", "path", accountsFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	storeClient, err := buildStoreClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create store client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(context.Background()); err != nil {
			logger.Warn("closing store client failed", "error", err)
		}
	}()

	repo := repository.New(storeClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare store schema", "error", err)
		os.Exit(1)
	}

	svc := service.NewAccountService(repo)
	creator := service.NewBulkCreator(svc, *workers)

	start := time.Now()
	logger.Info("seeding accounts", "count", len(accounts), "workers", *workers)
	if err := creator.CreateAccounts(ctx, accounts); err != nil {
		logger.Error("account seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding complete", "duration", time.Since(start).String(), "accounts", len(accounts))
}

func resolveDatasetPath(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	path := filepath.Join(baseDir, "accounts.json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	return path, nil
}

func loadAccountInputs(path string) ([]service.AccountInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var accounts []service.AccountInput
	if err := json.NewDecoder(file).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return accounts, nil
}

func buildStoreClient(ctx context.Context, cfg config.Config) (store.Client, error) {
	if cfg.Store.URI == "" {
		return nil, fmt.Errorf("STORE_URI is required for seeding")
	}
	opts := store.Options{
		URI:            cfg.Store.URI,
		Database:       cfg.Store.Database,
		Username:       cfg.Store.Username,
		Password:       cfg.Store.Password,
		MaxConnections: cfg.Store.MaxConnections,
	}
	return store.NewNeo4jClient(ctx, opts)
}
