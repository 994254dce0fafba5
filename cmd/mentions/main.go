package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
	"mentionscli/internal/exporter"
	"mentionscli/internal/infrastructure"
	"mentionscli/internal/lexicon"
	"mentionscli/internal/pipeline"
	"mentionscli/internal/reddit"
	"mentionscli/internal/validation"
	"mentionscli/pkg/contracts"
)

// cliFlags override the loaded configuration when set
type cliFlags struct {
	configFile string
	subreddit  string
	title      string
	lexicon    string
	out        string
	format     string
	hotLimit   int
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &cliFlags{}
	fs.StringVar(&f.configFile, "config", "", "path to config.yaml (defaults to config.yaml, configs/ or .config/)")
	fs.StringVar(&f.subreddit, "subreddit", "", "subreddit to read (default wallstreetbets)")
	fs.StringVar(&f.title, "title", "", "title marker identifying the daily thread")
	fs.StringVar(&f.lexicon, "lexicon", "", "equities table, .csv or .xlsx (defaults to data/constituents.csv)")
	fs.StringVar(&f.out, "out", "", "results directory (defaults to results/)")
	fs.StringVar(&f.format, "format", "", "report format: csv | xlsx")
	fs.IntVar(&f.hotLimit, "hot-limit", 0, "number of hot posts to scan for the daily thread")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *cliFlags) apply(cfg *config.Config) {
	if f.subreddit != "" {
		cfg.Reddit.Subreddit = f.subreddit
	}
	if f.title != "" {
		cfg.Reddit.TitleMarker = f.title
	}
	if f.lexicon != "" {
		cfg.Paths.Lexicon = f.lexicon
	}
	if f.out != "" {
		cfg.Paths.Results = f.out
	}
	if f.format != "" {
		cfg.Report.Format = f.format
	}
	if f.hotLimit != 0 {
		cfg.Reddit.HotLimit = f.hotLimit
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one mention count and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	start := time.Now()

	flags, err := parseFlags(args, stderr)
	if err != nil {
		return 1
	}
	if flags.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(flags.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize paths: %v\n", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "Failed to create required directories: %v\n", err)
		return 1
	}

	logPath := paths.GetRunLogPath(start)
	if cfg.Logging.FilePath != "" {
		logPath = paths.Resolve(cfg.Logging.FilePath)
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			fmt.Fprintf(stderr, "Failed to create log directory: %v\n", err)
			return 1
		}
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stdout, logPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	if p := logger.FilePath(); p != "" {
		fmt.Fprintf(stdout, "Logging to: %s\n", p)
	}

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	runID := infrastructure.GetRunID(ctx)

	logger.InfoContext(ctx, "Starting mention count",
		slog.String("version", contracts.Version),
		slog.String("subreddit", cfg.Reddit.Subreddit),
		slog.String("title_marker", cfg.Reddit.TitleMarker),
		slog.Int("hot_limit", cfg.Reddit.HotLimit),
		slog.String("lexicon", paths.LexiconFile),
		slog.String("results_dir", paths.ResultsDir),
		slog.String("format", cfg.Report.Format))
	paths.LogPathResolution(logger.Logger)

	validator := validation.NewFileValidator(infrastructure.WithComponent(logger.Logger, "validation"))
	if err := validator.Preflight(paths); err != nil {
		logger.ErrorContext(ctx, "Preflight failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Telemetry, logger.Sink(), runID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize tracing", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	var metrics *infrastructure.RunMetrics
	if cfg.Telemetry.Metrics {
		metrics = infrastructure.NewRunMetrics()
	}

	p := pipeline.New(pipeline.Options{
		LexiconPath: paths.LexiconFile,
		Subreddit:   cfg.Reddit.Subreddit,
		TitleMarker: cfg.Reddit.TitleMarker,
		HotLimit:    cfg.Reddit.HotLimit,
		StartedAt:   start,
	}, pipeline.Deps{
		Lexicon: lexicon.NewLoader(cfg.Lexicon, logger.Logger),
		Credentials: func() (*config.RedditCredentials, error) {
			return config.LoadCredentialsForPaths(paths)
		},
		Source:   reddit.NewClientFromConfig(cfg.Reddit, infrastructure.WithComponent(logger.Logger, "reddit")),
		Exporter: exporter.NewReportExporter(paths.ResultsDir, cfg.Report.Format, infrastructure.WithComponent(logger.Logger, "exporter")),
		Metrics:  metrics,
		Tracer:   tracing.Tracer,
		Logger:   logger.Logger,
	})

	res, runErr := p.Run(ctx)

	if metrics != nil {
		if err := metrics.WriteTextfile(paths.MetricsFile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		logger.ErrorContext(ctx, "Run failed",
			slog.String("error", runErr.Error()),
			slog.String("error_type", string(apperrors.TypeOf(runErr))))
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 1
	}

	fmt.Fprintf(stdout, "Counted %d mentions of %d tickers in %d comments\n",
		res.Tally.Total(), len(res.Tally), res.CommentsFetched)
	fmt.Fprintf(stdout, "Report written to: %s\n", res.ReportPath)
	return 0
}
