package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/observability"
)

// Output file names within the report directory.
const (
	ReportFile      = "REPORT_MEV.md"
	TradesFile      = "trade_records.csv"
	OutcomesFile    = "sandwich_outcomes.csv"
	PoolHistoryFile = "pool_history.csv"
)

// Generator writes reports to an output directory.
type Generator struct {
	outputDir string
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate writes the Markdown report and CSV extracts for the given runs.
func (g *Generator) Generate(runs []*domain.Results) error {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := &Report{GeneratedAt: g.now(), Runs: runs}

	var trades []*domain.TradeRecord
	var outcomes []*domain.SandwichOutcome
	var history []*domain.PoolSnapshot
	for _, run := range runs {
		trades = append(trades, run.UnprotectedTrades...)
		trades = append(trades, run.ProtectedTrades...)
		outcomes = append(outcomes, run.SandwichOutcomes...)
		history = append(history, run.PoolHistory...)
	}

	files := map[string]string{
		ReportFile:      RenderMarkdown(report),
		TradesFile:      RenderTradesCSV(trades),
		OutcomesFile:    RenderOutcomesCSV(outcomes),
		PoolHistoryFile: RenderPoolHistoryCSV(history),
	}

	for name, content := range files {
		path := filepath.Join(g.outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	observability.RecordReportGenerated()
	return nil
}
