package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ippon1/Reparaturbonus/config"
	"github.com/ippon1/Reparaturbonus/models"
	"github.com/ippon1/Reparaturbonus/pipeline"
	"github.com/ippon1/Reparaturbonus/scraper"
)

func main() {
	config.LoadEnv()

	defaultCfg := config.DefaultCollectorConfig()
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("COLLECTOR_OUTPUT"); ok {
		outputDefault = value
	}
	areaDefault := defaultCfg.Area
	if value, ok := config.EnvString("COLLECTOR_AREA"); ok {
		areaDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("COLLECTOR_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	cacheDefault := defaultCfg.CacheSize
	if value, ok, err := config.EnvInt("COLLECTOR_CACHE_SIZE"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid COLLECTOR_CACHE_SIZE: %v\n", err)
		os.Exit(1)
	} else if ok {
		cacheDefault = value
	}

	area := flag.String("area", areaDefault, "Administrative area name to search")
	shop := flag.String("shop", defaultCfg.ShopCategory, "OSM shop tag value to collect")
	overpassURL := flag.String("overpass-url", defaultCfg.OverpassURL, "Overpass interpreter endpoint")
	cdxURL := flag.String("cdx-url", defaultCfg.CDXBaseURL, "Wayback CDX search endpoint")
	timeoutMs := flag.Int("timeout", int(defaultCfg.Timeout.Milliseconds()), "Request timeout (milliseconds)")
	lookupDelayMs := flag.Int("lookup-delay", 0, "Delay between archive lookups (milliseconds)")
	cacheSize := flag.Int("cache-size", cacheDefault, "Archive lookup cache size")
	outputFile := flag.String("output", outputDefault, "Output file path")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Output format: tsv, sqlite, or dual")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, _ := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg := defaultCfg
	cfg.Area = *area
	cfg.ShopCategory = *shop
	cfg.OverpassURL = *overpassURL
	cfg.CDXBaseURL = *cdxURL
	cfg.Timeout = time.Duration(*timeoutMs) * time.Millisecond
	cfg.LookupDelay = time.Duration(*lookupDelayMs) * time.Millisecond
	cfg.CacheSize = *cacheSize
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting collection",
		slog.String("area", cfg.Area),
		slog.String("shop", cfg.ShopCategory),
		slog.String("output", cfg.OutputFile),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising collector", slog.Any("error", err))
		os.Exit(1)
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current record")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := s.Run(ctx, writer)
	if err != nil {
		slog.Error("collection failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := writer.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg.OutputFile)
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "tsv":
		return pipeline.NewTSVWriter(filename)
	case "sqlite":
		return pipeline.NewSQLiteWriter(filename)
	case "dual":
		sqliteFilename := strings.TrimSuffix(filename, ".tsv") + ".sqlite"
		return pipeline.NewDualWriter(filename, sqliteFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.CollectResult, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Collection complete")
	fmt.Printf("  Elements:        %d\n", result.Elements)
	fmt.Printf("  Rows written:    %d\n", result.RowsWritten)
	fmt.Printf("  Archive lookups: %d\n", result.Lookups)
	fmt.Printf("  Cache hits:      %d\n", result.CacheHits)
	fmt.Printf("  Lookup failures: %d\n", result.LookupFailures)
	fmt.Printf("  Duration:        %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Output file:     %s\n", outputFile)
	fmt.Println(separator)
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
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
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
