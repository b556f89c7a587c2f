package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"stockprep/internal/config"
	apperrors "stockprep/internal/errors"
	"stockprep/internal/exporter"
	"stockprep/internal/infrastructure"
	"stockprep/internal/operations"
	"stockprep/pkg/contracts"
)

const usageText = `Usage: preprocess [flags] [prices.csv [sentiments.csv [workers]]]

Deduplicates a price table and a sentiment table, joins them by ticker and
writes deduped_stocks.csv, deduped_sentiments.csv and preprocessed_output.csv.

Flags:
`

// cliOptions holds the parsed command line. Only flags the user actually
// set override the loaded config.
type cliOptions struct {
	configPath string
	prices     string
	sentiments string
	outDir     string
	workers    int
	preview    int
	xlsx       bool
	version    bool

	set map[string]bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, apperrors.ErrConfig) {
			fmt.Fprintln(os.Stderr, "Run 'preprocess -help' for usage.")
		}
		os.Exit(1)
	}
}

// parseArgs parses flags followed by the positional prices, sentiments and
// workers arguments.
func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	opts := &cliOptions{set: make(map[string]bool)}

	fs := flag.NewFlagSet("preprocess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.prices, "prices", config.DefaultPricesFile, "price table (.csv or .xlsx)")
	fs.StringVar(&opts.sentiments, "sentiments", config.DefaultSentimentsFile, "sentiment table (.csv or .xlsx)")
	fs.StringVar(&opts.outDir, "out", ".", "output directory")
	fs.IntVar(&opts.workers, "workers", 0, "join workers (0 = GOMAXPROCS)")
	fs.IntVar(&opts.preview, "preview", config.DefaultPreviewRows, "joined rows to print after the run")
	fs.BoolVar(&opts.xlsx, "xlsx", false, "also write "+config.JoinedXLSXName)
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	rest := fs.Args()
	if len(rest) > 3 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("too many arguments: %s", strings.Join(rest[3:], " ")), nil)
	}
	if len(rest) >= 1 {
		opts.prices = rest[0]
		opts.set["prices"] = true
	}
	if len(rest) >= 2 {
		opts.sentiments = rest[1]
		opts.set["sentiments"] = true
	}
	if len(rest) == 3 {
		n, err := strconv.Atoi(rest[2])
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("workers must be an integer, got %q", rest[2]), err)
		}
		// Positional workers are clamped to at least one.
		opts.workers = max(n, 1)
		opts.set["workers"] = true
	}

	return opts, nil
}

// apply overlays the set flags onto cfg and revalidates it
func (o *cliOptions) apply(cfg *config.Config) error {
	if o.set["prices"] {
		cfg.Input.Prices = o.prices
	}
	if o.set["sentiments"] {
		cfg.Input.Sentiments = o.sentiments
	}
	if o.set["out"] {
		cfg.Output.Dir = o.outDir
	}
	if o.set["workers"] {
		cfg.Join.Workers = o.workers
	}
	if o.set["preview"] {
		cfg.Preview.Rows = o.preview
	}
	if o.set["xlsx"] {
		cfg.Output.XLSX = o.xlsx
	}

	if err := cfg.Validate(); err != nil {
		return apperrors.NewConfigError("invalid command line", err)
	}
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return apperrors.NewConfigError("cannot load configuration", err)
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("cannot initialize logging", err)
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return apperrors.NewConfigError("cannot initialize telemetry", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", infrastructure.ErrorAttr(err))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create pipeline metrics: %w", err)
	}

	pipelineOpts := operations.NewOptions(cfg)
	pipelineOpts.Logger = logger
	pipelineOpts.Tracer = providers.Tracer
	pipelineOpts.Metrics = metrics

	logger.Info("starting preprocessing",
		slog.String("version", contracts.Version),
		slog.String("prices", cfg.Input.Prices),
		slog.String("sentiments", cfg.Input.Sentiments),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Int("workers", pipelineOpts.Workers))
	pipelineOpts.Paths.LogPathResolution(logger)

	runState, runErr := operations.NewPipeline(pipelineOpts).Run(ctx)

	if runState.Prices != nil {
		printDiagnostics(stderr, runState)
	}
	if cfg.Output.MetricsTextfile != "" {
		if err := providers.WriteMetricsTextfile(cfg.Output.MetricsTextfile); err != nil {
			logger.Warn("cannot write metrics textfile",
				slog.String("path", cfg.Output.MetricsTextfile),
				infrastructure.ErrorAttr(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := exporter.WritePreview(stdout, runState.Joined, cfg.Preview.Rows, cfg.Preview.PerRow); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintf(stdout, "Files: %s\n", strings.Join(runState.Outputs, ", "))
	return nil
}

// printDiagnostics lists the price headers, the first data row and the
// resolved column mapping so an operator can check the schema guess.
func printDiagnostics(w io.Writer, run *operations.RunState) {
	table := run.Prices

	fmt.Fprintln(w, "=== Headers (index : name) ===")
	for i, h := range table.Headers {
		fmt.Fprintf(w, "%d : %s\n", i, h)
	}
	if len(table.FirstRow) > 0 {
		fmt.Fprintln(w, "=== First data row (index : value) ===")
		for i, v := range table.FirstRow {
			fmt.Fprintf(w, "%d : %s\n", i, v)
		}
	}
	fmt.Fprintf(w, "[stocks] mapping -> %s\n", table.Mapping)
	if table.YearCheck.Suspicious {
		fmt.Fprintln(w, "WARNING: Price values look like years. Check mapping above.")
	}
}
