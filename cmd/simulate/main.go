// Package main runs MEV simulation batches from the command line and writes
// the Markdown/CSV report set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/reporting"
	"amm-mev-lab/internal/simulation"
	"amm-mev-lab/internal/storage"
	chstore "amm-mev-lab/internal/storage/clickhouse"
	"amm-mev-lab/internal/storage/memory"
	"amm-mev-lab/internal/storage/migrations"
	pgstore "amm-mev-lab/internal/storage/postgres"
)

func main() {
	loadEnvFile()

	defaults := domain.DefaultConfig()

	txs := flag.Int("txs", defaults.TotalTransactions, "Transactions per run")
	attackProb := flag.Float64("attack-prob", defaults.AttackProbability, "Probability the attacker sees a pending swap")
	minAmount := flag.Uint64("min-amount", defaults.MinSwapAmount, "Minimum swap amount")
	maxAmount := flag.Uint64("max-amount", defaults.MaxSwapAmount, "Maximum swap amount")
	reserveA := flag.Uint64("reserve-a", defaults.InitialReserveA, "Initial pool reserve A")
	reserveB := flag.Uint64("reserve-b", defaults.InitialReserveB, "Initial pool reserve B")
	feeBps := flag.Uint("fee-bps", uint(defaults.FeeBps), "Pool fee in basis points")
	capital := flag.Uint64("capital", defaults.AttackerCapital, "Attacker capital per side")
	traders := flag.Int("traders", defaults.NumTraders, "Number of traders per cohort")
	slippageBps := flag.Uint("slippage-bps", uint(defaults.SlippageBps), "Slippage tolerance in basis points")
	seed := flag.Int64("seed", defaults.Seed, "RNG seed for the first run")
	runs := flag.Int("runs", 1, "Number of independent runs (seeds seed..seed+runs-1)")
	independentPools := flag.Bool("independent-pools", false, "Evolve the protected pool independently instead of discarding its mutations")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	cfg := defaults
	cfg.TotalTransactions = *txs
	cfg.AttackProbability = *attackProb
	cfg.MinSwapAmount = *minAmount
	cfg.MaxSwapAmount = *maxAmount
	cfg.InitialReserveA = *reserveA
	cfg.InitialReserveB = *reserveB
	cfg.FeeBps = uint16(*feeBps)
	cfg.AttackerCapital = *capital
	cfg.NumTraders = *traders
	cfg.SlippageBps = uint16(*slippageBps)
	cfg.Seed = *seed
	cfg.IndependentPools = *independentPools

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	opts, closeStores, err := buildStores(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage setup error: %v\n", err)
		os.Exit(1)
	}
	defer closeStores()
	opts.Verbose = *verbose

	runner := simulation.NewRunner(opts)

	fmt.Printf("=== MEV Simulation ===\n")
	fmt.Printf("Runs: %d, transactions per run: %d, attack probability: %.2f\n", *runs, cfg.TotalTransactions, cfg.AttackProbability)

	results, err := runner.RunBatch(ctx, cfg, *runs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
		os.Exit(1)
	}

	generator := reporting.NewGenerator(*outputDir)
	if err := generator.Generate(results); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
	fmt.Printf("\nReports written to %s/\n", *outputDir)
}

// buildStores wires persistence from the configured DSNs. Without DSNs
// everything stays in memory and results live only in the report files.
func buildStores(ctx context.Context, postgresDSN, clickhouseDSN string) (simulation.RunnerOptions, func(), error) {
	var opts simulation.RunnerOptions
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return opts, closeAll, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			closeAll()
			return opts, func() {}, fmt.Errorf("postgres migrations: %w", err)
		}

		opts.TradeRecordStore = pgstore.NewTradeRecordStore(pool)
		opts.SandwichOutcomeStore = pgstore.NewSandwichOutcomeStore(pool)
	} else {
		opts.TradeRecordStore = memory.NewTradeRecordStore()
		opts.SandwichOutcomeStore = memory.NewSandwichOutcomeStore()
	}

	var snapshotStore storage.PoolSnapshotStore = memory.NewPoolSnapshotStore()
	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			closeAll()
			return opts, func() {}, fmt.Errorf("clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { conn.Close() })
		snapshotStore = chstore.NewPoolSnapshotStore(conn)
	}
	opts.PoolSnapshotStore = snapshotStore

	return opts, closeAll, nil
}

func printSummary(results []*domain.Results) {
	report := &reporting.Report{Runs: results}
	c := report.Combined()

	fmt.Printf("\nCombined over %d run(s):\n", len(results))
	fmt.Printf("  Transactions:       %d\n", c.TotalTransactions)
	fmt.Printf("  Attack attempts:    %d\n", c.AttackAttempts)
	fmt.Printf("  Successful attacks: %d (%.2f%%)\n", c.SuccessfulAttacks, c.AttackSuccessRate)
	fmt.Printf("  MEV extracted:      %d\n", c.TotalMEVExtracted)
	fmt.Printf("  Victim losses:      %d\n", c.TotalVictimLosses)
	fmt.Printf("  Protected savings:  %d\n", c.TotalProtectedSavings)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
