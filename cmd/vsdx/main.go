// Package main is the vsdx CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stevebcampbell/vsdx-extraction/internal/analyze"
	"github.com/stevebcampbell/vsdx-extraction/internal/chart"
	"github.com/stevebcampbell/vsdx-extraction/internal/cli"
	"github.com/stevebcampbell/vsdx-extraction/internal/config"
	"github.com/stevebcampbell/vsdx-extraction/internal/history"
	"github.com/stevebcampbell/vsdx-extraction/internal/server"
	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
	"github.com/stevebcampbell/vsdx-extraction/internal/watcher"
	"github.com/stevebcampbell/vsdx-extraction/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vsdx/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); a missing default file
// is not an error, the tool then runs on built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				return config.Load(fallback)
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, nil
		}
	}
	return config.Load(path)
}

func main() {
	// A .env in the working directory may carry GEMINI_API_KEY; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "extract":
		runExtract()
	case "summary":
		runSummary()
	case "analyze":
		runAnalyze()
	case "chart":
		runChart()
	case "history":
		runHistory()
	case "watch":
		runWatch()
	case "serve":
		runServe()
	case "version", "--version", "-v":
		fmt.Printf("vsdx version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: vsdx <command> [flags]

Commands:
  extract   extract pages, masters, and metadata from a VSDX file
  summary   print structural statistics for a VSDX file
  analyze   AI analysis of a VSDX file (requires GEMINI_API_KEY)
  chart     render an SVG bar chart of elements per page
  history   list recorded extraction runs
  watch     watch directories and extract VSDX files as they appear
  serve     run the HTTP API server
  version   print version

Run "vsdx <command> -h" for command flags.
`)
}

// mustLoad loads config and exits on failure.
func mustLoad(path string) *config.Config {
	cfg, err := loadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newExtractor builds the extractor from config, with debug logging when enabled.
func newExtractor(cfg *config.Config, logger *zap.Logger) *vsdx.Extractor {
	opts := []vsdx.Option{vsdx.WithWorkers(cfg.Extract.Workers)}
	if logger != nil {
		opts = append(opts, vsdx.WithLogger(logger))
	}
	return vsdx.NewExtractor(opts...)
}

// defaultOutputDir derives the output directory for an input file: an explicit
// flag wins, else a per-file directory under the configured extraction root.
func defaultOutputDir(cfg *config.Config, inputPath, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(cfg.Extract.OutputDir, base+"_extracted")
}

func parseFormat(s string) cli.OutputFormat {
	switch s {
	case "json":
		return cli.OutputJSON
	case "text":
		return cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", s)
		os.Exit(1)
		return cli.OutputText
	}
}

// recordRun stores the run in history when a store can be opened; history
// problems never fail the extraction itself.
func recordRun(cfg *config.Config, inputPath string, result *vsdx.Result) {
	store, err := history.NewStore(cfg.History.DatabasePath)
	if err != nil {
		return
	}
	defer store.Close()
	_, _ = store.Add(context.Background(), inputPath, result)
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputDir := fs.String("output", "", "output directory (default: <extract root>/<name>_extracted)")
	outputFormat := fs.String("format", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vsdx extract [flags] <file.vsdx>")
		os.Exit(1)
	}

	cfg := mustLoad(*configPath)
	var logger *zap.Logger
	if cfg.Debug || *debug {
		l, err := utils.NewLogger(true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		logger = l
	}

	inputPath := fs.Arg(0)
	result := newExtractor(cfg, logger).Extract(inputPath, defaultOutputDir(cfg, inputPath, *outputDir))
	recordRun(cfg, inputPath, result)

	if err := cli.WriteResult(os.Stdout, result, vsdx.Summarize(result), parseFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}

// extractToTemp extracts inputPath into a throwaway directory, for commands that
// only need the in-memory result.
func extractToTemp(cfg *config.Config, inputPath string) *vsdx.Result {
	tmp, err := os.MkdirTemp("", "vsdx-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmp)
	return newExtractor(cfg, nil).Extract(inputPath, tmp)
}

func runSummary() {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vsdx summary [flags] <file.vsdx>")
		os.Exit(1)
	}

	cfg := mustLoad(*configPath)
	result := extractToTemp(cfg, fs.Arg(0))
	if !result.Success {
		fmt.Fprintf(os.Stderr, "Extraction failed: %s\n", result.Error)
		os.Exit(1)
	}
	summary := vsdx.Summarize(result)
	if parseFormat(*outputFormat) == cli.OutputJSON {
		if err := cli.WriteResult(os.Stdout, result, summary, cli.OutputJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("Pages: %d  Masters: %d\n", summary.PageCount, summary.MasterCount)
	fmt.Printf("Page elements: total %d, avg %.2f, min %d, max %d\n",
		summary.TotalElements, summary.AverageElements, summary.MinElements, summary.MaxElements)
	fmt.Printf("App properties: %t  Document: %t  Diagnostics: %d\n",
		summary.HasAppProperties, summary.HasDocument, summary.Diagnostics)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	apiKey := fs.String("api-key", "", "Gemini API key (default: config, then GEMINI_API_KEY)")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vsdx analyze [flags] <file.vsdx>")
		os.Exit(1)
	}

	cfg := mustLoad(*configPath)
	key := *apiKey
	if key == "" {
		key = cfg.AI.APIKey
	}
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}

	ctx := context.Background()
	analyzer, err := analyze.NewAnalyzer(ctx, analyze.Config{APIKey: key, Model: cfg.AI.Model})
	if err != nil {
		fmt.Fprintf(os.Stderr, "AI analysis unavailable: %v\n", err)
		os.Exit(1)
	}
	defer analyzer.Close()

	result := extractToTemp(cfg, fs.Arg(0))
	if !result.Success {
		fmt.Fprintf(os.Stderr, "Extraction failed: %s\n", result.Error)
		os.Exit(1)
	}
	analysis, err := analyzer.AnalyzeExtraction(ctx, result, vsdx.Summarize(result))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(analysis)
}

func runChart() {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outPath := fs.String("o", "elements.svg", "output SVG path")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vsdx chart [flags] <file.vsdx>")
		os.Exit(1)
	}

	cfg := mustLoad(*configPath)
	result := extractToTemp(cfg, fs.Arg(0))
	if !result.Success {
		fmt.Fprintf(os.Stderr, "Extraction failed: %s\n", result.Error)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, chart.Render(result.Pages), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write chart: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Chart written to %s (%d pages)\n", *outPath, len(result.Pages))
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of records")
	outputFormat := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg := mustLoad(*configPath)
	store, err := history.NewStore(cfg.History.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.List(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list history: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHistory(os.Stdout, records, parseFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg := mustLoad(*configPath)
	dirs := fs.Args()
	if len(dirs) == 0 {
		dirs = cfg.Watch.Directories
	}
	if len(dirs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: vsdx watch [flags] <dir> [dir...] (or set watch.directories in config)")
		os.Exit(1)
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	extractor := newExtractor(cfg, logger)
	onExtract := func(path string) {
		outDir := defaultOutputDir(cfg, path, "")
		result := extractor.Extract(path, outDir)
		recordRun(cfg, path, result)
		if result.Success {
			logger.Info("extracted", zap.String("input", path), zap.String("output", outDir),
				zap.Int("pages", len(result.Pages)))
		} else {
			logger.Warn("extraction failed", zap.String("input", path), zap.String("error", result.Error))
		}
	}

	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(dirs, cfg.Watch.RecursiveOrDefault(), onExtract, watchOpts...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watchSvc.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()
	logger.Info("watching", zap.Strings("directories", dirs))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")
	watchSvc.Stop()
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg := mustLoad(*configPath)
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := history.NewStore(cfg.History.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open history store", zap.Error(err))
	}
	defer store.Close()

	// Analysis is optional: without a key the endpoint reports not-configured.
	var analyzer server.Analyzer
	key := cfg.AI.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key != "" {
		a, err := analyze.NewAnalyzer(context.Background(), analyze.Config{APIKey: key, Model: cfg.AI.Model})
		if err != nil {
			logger.Warn("AI analysis disabled", zap.Error(err))
		} else {
			defer a.Close()
			analyzer = a
		}
	}

	srv := server.NewServer(
		newExtractor(cfg, logger),
		store,
		analyzer,
		&cfg.Server,
		&cfg.Extract,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}
