package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ippon1/Reparaturbonus/config"
	"github.com/ippon1/Reparaturbonus/dataset"
	"github.com/ippon1/Reparaturbonus/report"
	"github.com/ippon1/Reparaturbonus/stats"
)

func main() {
	config.LoadEnv()

	defaultCfg := config.DefaultAnalyzerConfig()
	inputDefault := defaultCfg.InputFile
	if value, ok := config.EnvString("ANALYZER_INPUT"); ok {
		inputDefault = value
	}
	targetYearDefault := defaultCfg.TargetYear
	if value, ok, err := config.EnvInt("ANALYZER_TARGET_YEAR"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid ANALYZER_TARGET_YEAR: %v\n", err)
		os.Exit(1)
	} else if ok {
		targetYearDefault = value
	}

	inputFile := flag.String("input", inputDefault, "Input TSV file path")
	currentYear := flag.Int("current-year", defaultCfg.CurrentYear, "Year a row's current price date must fall in to qualify")
	targetYear := flag.Int("target-year", targetYearDefault, "Target year for inflation adjustment")
	cutoff := flag.String("cutoff", "2021-01-01", "First price date cutoff (YYYY-MM-DD)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, _ := newLogger(*verbose)
	slog.SetDefault(logger)

	cutoffDate, ok := stats.ParseDate(*cutoff)
	if !ok {
		slog.Error("invalid cutoff date", slog.String("cutoff", *cutoff))
		os.Exit(1)
	}

	cfg := defaultCfg
	cfg.InputFile = *inputFile
	cfg.CurrentYear = *currentYear
	cfg.TargetYear = *targetYear
	cfg.CutoffDate = cutoffDate
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	rows, err := dataset.Load(cfg.InputFile)
	if err != nil {
		slog.Error("loading input table", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("table loaded",
		slog.String("input", cfg.InputFile),
		slog.Int("rows", len(rows)),
	)

	r := report.Build(rows, stats.DefaultCPITable(), cfg.CutoffDate, cfg.CurrentYear, cfg.TargetYear)
	r.Render(os.Stdout)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
