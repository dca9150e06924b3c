// Package main provides the simulation HTTP service: runs are triggered over
// a JSON API and trade records stream to WebSocket subscribers as they are
// produced.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/observability"
	"amm-mev-lab/internal/simulation"
	chstore "amm-mev-lab/internal/storage/clickhouse"
	"amm-mev-lab/internal/storage/memory"
	"amm-mev-lab/internal/storage/migrations"
	pgstore "amm-mev-lab/internal/storage/postgres"
)

// Server coordinates simulation runs and WebSocket subscribers.
type Server struct {
	runner *simulation.Runner
	logger *log.Logger

	mu         sync.Mutex
	clients    map[*websocket.Conn]struct{}
	runsTotal  int
	lastRun    time.Time
	runRunning bool

	started time.Time
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The service is a lab tool; cross-origin dashboards are expected.
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	loadEnvFile()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	ctx := context.Background()

	opts, closeStores, err := buildStores(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("storage setup: %v", err)
	}
	defer closeStores()
	opts.Verbose = *verbose

	s := &Server{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
		started: time.Now(),
	}
	opts.Observer = s.broadcast
	s.runner = simulation.NewRunner(opts)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/api/v1/run", s.handleRun)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	logger.Printf("Starting HTTP server on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}
}

// RunRequest overrides the default configuration. Zero-valued fields keep
// their defaults.
type RunRequest struct {
	TotalTransactions int     `json:"total_transactions,omitempty"`
	AttackProbability float64 `json:"attack_probability,omitempty"`
	MinSwapAmount     uint64  `json:"min_swap_amount,omitempty"`
	MaxSwapAmount     uint64  `json:"max_swap_amount,omitempty"`
	InitialReserveA   uint64  `json:"initial_reserve_a,omitempty"`
	InitialReserveB   uint64  `json:"initial_reserve_b,omitempty"`
	FeeBps            uint16  `json:"fee_bps,omitempty"`
	AttackerCapital   uint64  `json:"attacker_capital,omitempty"`
	NumTraders        int     `json:"num_traders,omitempty"`
	SlippageBps       uint16  `json:"slippage_bps,omitempty"`
	Seed              int64   `json:"seed,omitempty"`
	Runs              int     `json:"runs,omitempty"`
	IndependentPools  bool    `json:"independent_pools,omitempty"`
}

// RunResponse summarizes the finished batch.
type RunResponse struct {
	Runs      []RunSummary `json:"runs"`
	StartedAt time.Time    `json:"started_at"`
	Duration  string       `json:"duration"`
}

// RunSummary is the per-run slice of the response.
type RunSummary struct {
	RunID   string         `json:"run_id"`
	Seed    int64          `json:"seed"`
	Summary domain.Summary `json:"summary"`
}

// handleRun executes a simulation batch synchronously and returns the
// summaries. One batch at a time; concurrent requests get 409.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	if s.runRunning {
		s.mu.Unlock()
		http.Error(w, "a run is already in progress", http.StatusConflict)
		return
	}
	s.runRunning = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.runRunning = false
		s.mu.Unlock()
	}()

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg, runs := configFromRequest(req)
	if err := cfg.Validate(); err != nil {
		http.Error(w, "invalid configuration: "+err.Error(), http.StatusBadRequest)
		return
	}

	started := time.Now()
	s.logger.Printf("Run requested: %d run(s), %d transactions each", runs, cfg.TotalTransactions)

	results, err := s.runner.RunBatch(r.Context(), cfg, runs)
	if err != nil {
		http.Error(w, "simulation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.runsTotal += runs
	s.lastRun = time.Now()
	s.mu.Unlock()

	resp := RunResponse{StartedAt: started, Duration: time.Since(started).String()}
	for _, res := range results {
		resp.Runs = append(resp.Runs, RunSummary{
			RunID:   res.RunID,
			Seed:    res.Config.Seed,
			Summary: res.Summary,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleStream upgrades to WebSocket and subscribes the client to the trade
// record feed of subsequent runs.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	total := len(s.clients)
	s.mu.Unlock()
	s.logger.Printf("stream client connected (%d total)", total)

	// Reader loop exists only to notice disconnects.
	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast sends one trade record to every connected stream client.
// Failed clients are dropped.
func (s *Server) broadcast(record *domain.TradeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(record); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) dropClient(conn *websocket.Conn) {
	conn.Close()
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status     string    `json:"status"`
	Uptime     string    `json:"uptime"`
	RunsTotal  int       `json:"runs_total"`
	LastRun    time.Time `json:"last_run,omitempty"`
	RunRunning bool      `json:"run_running"`
	Clients    int       `json:"stream_clients"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:     "running",
		Uptime:     time.Since(s.started).String(),
		RunsTotal:  s.runsTotal,
		LastRun:    s.lastRun,
		RunRunning: s.runRunning,
		Clients:    len(s.clients),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func configFromRequest(req RunRequest) (domain.Config, int) {
	cfg := domain.DefaultConfig()

	if req.TotalTransactions > 0 {
		cfg.TotalTransactions = req.TotalTransactions
	}
	if req.AttackProbability > 0 {
		cfg.AttackProbability = req.AttackProbability
	}
	if req.MinSwapAmount > 0 {
		cfg.MinSwapAmount = req.MinSwapAmount
	}
	if req.MaxSwapAmount > 0 {
		cfg.MaxSwapAmount = req.MaxSwapAmount
	}
	if req.InitialReserveA > 0 {
		cfg.InitialReserveA = req.InitialReserveA
	}
	if req.InitialReserveB > 0 {
		cfg.InitialReserveB = req.InitialReserveB
	}
	if req.FeeBps > 0 {
		cfg.FeeBps = req.FeeBps
	}
	if req.AttackerCapital > 0 {
		cfg.AttackerCapital = req.AttackerCapital
	}
	if req.NumTraders > 0 {
		cfg.NumTraders = req.NumTraders
	}
	if req.SlippageBps > 0 {
		cfg.SlippageBps = req.SlippageBps
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	cfg.IndependentPools = req.IndependentPools

	runs := 1
	if req.Runs > 0 {
		runs = req.Runs
	}
	return cfg, runs
}

// buildStores wires persistence from the configured DSNs, falling back to
// memory stores.
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
			return opts, closeAll, err
		}
		closers = append(closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			closeAll()
			return opts, func() {}, err
		}

		opts.TradeRecordStore = pgstore.NewTradeRecordStore(pool)
		opts.SandwichOutcomeStore = pgstore.NewSandwichOutcomeStore(pool)
	} else {
		opts.TradeRecordStore = memory.NewTradeRecordStore()
		opts.SandwichOutcomeStore = memory.NewSandwichOutcomeStore()
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			closeAll()
			return opts, func() {}, err
		}
		closers = append(closers, func() { conn.Close() })
		opts.PoolSnapshotStore = chstore.NewPoolSnapshotStore(conn)
	} else {
		opts.PoolSnapshotStore = memory.NewPoolSnapshotStore()
	}

	return opts, closeAll, nil
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
