package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmesa/accounts-service/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		accounts    = flag.Int("accounts", cfg.NumAccounts, "number of accounts to generate")
		minBalance  = flag.Float64("min-balance", cfg.MinBalance, "lower bound for generated balances")
		maxBalance  = flag.Float64("max-balance", cfg.MaxBalance, "upper bound for generated balances")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "seed-data", "directory to write accounts.json")
		writeStdout = flag.Bool("stdout", false, "write dataset to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumAccounts: *accounts,
		MinBalance:  *minBalance,
		MaxBalance:  *maxBalance,
		Seed:        *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d accounts into %s\n", len(dataset.Accounts), *outputDir)
}
