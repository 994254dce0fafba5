package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
	"mentionscli/internal/infrastructure"
	"mentionscli/internal/lexicon"
	"mentionscli/internal/mentions"
	"mentionscli/pkg/contracts/domain"
)

// LexiconSource loads the company name to ticker table
type LexiconSource interface {
	LoadFile(path string) (*lexicon.Lexicon, error)
}

// ThreadSource authenticates against Reddit and reads the daily thread
type ThreadSource interface {
	Authenticate(ctx context.Context, creds *config.RedditCredentials) error
	FindDailyThread(ctx context.Context, subreddit, marker string, limit int) (domain.Submission, error)
	FetchComments(ctx context.Context, sub domain.Submission) ([]domain.Comment, error)
}

// ReportSink persists the finished report and returns where it went
type ReportSink interface {
	Export(report domain.MentionReport) (string, error)
}

// CredentialsFunc supplies the Reddit credentials for the run
type CredentialsFunc func() (*config.RedditCredentials, error)

// Options are the per-run inputs
type Options struct {
	LexiconPath string
	Subreddit   string
	TitleMarker string
	HotLimit    int
	StartedAt   time.Time
}

// Deps are the collaborators a Pipeline drives
type Deps struct {
	Lexicon     LexiconSource
	Credentials CredentialsFunc
	Source      ThreadSource
	Exporter    ReportSink
	Metrics     *infrastructure.RunMetrics // optional
	Tracer      trace.Tracer               // optional
	Logger      *slog.Logger
}

// Result summarises a run
type Result struct {
	RunID           string
	StartedAt       time.Time
	Submission      domain.Submission
	LexiconEntries  int
	CommentsFetched int
	CommentsMatched int
	Tally           mentions.Tally
	ReportPath      string
	Steps           []StepState
}

// Pipeline runs the stages of one mention count sequentially
type Pipeline struct {
	opts    Options
	lexicon LexiconSource
	creds   CredentialsFunc
	source  ThreadSource
	sink    ReportSink
	metrics *infrastructure.RunMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New creates a pipeline
func New(opts Options, deps Deps) *Pipeline {
	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.TracerName)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		opts:    opts,
		lexicon: deps.Lexicon,
		creds:   deps.Credentials,
		source:  deps.Source,
		sink:    deps.Exporter,
		metrics: deps.Metrics,
		tracer:  tracer,
		logger:  infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Run executes load lexicon, authenticate, find submission, fetch comments,
// match and export, stopping at the first failing stage. The partial Result
// is returned alongside any error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	res := &Result{
		RunID:     infrastructure.GetRunID(ctx),
		StartedAt: p.opts.StartedAt,
	}

	ctx, span := p.tracer.Start(ctx, "mentions.run",
		trace.WithAttributes(
			attribute.String("run.id", res.RunID),
			attribute.String("reddit.subreddit", p.opts.Subreddit),
		),
	)

	err := p.run(ctx, res)
	infrastructure.EndSpan(span, err)

	if err != nil {
		return res, err
	}

	if p.metrics != nil {
		p.metrics.MarkSuccess(time.Now())
	}
	p.logger.InfoContext(ctx, "Run completed",
		slog.String("submission_id", res.Submission.ID),
		slog.Int("comments", res.CommentsFetched),
		slog.Int("tickers", len(res.Tally)),
		slog.Int("mentions", res.Tally.Total()),
		slog.String("report", res.ReportPath))

	return res, nil
}

func (p *Pipeline) run(ctx context.Context, res *Result) error {
	var (
		lex      *lexicon.Lexicon
		comments []domain.Comment
	)

	if err := p.runStage(ctx, res, StageLoadLexicon, func(ctx context.Context) error {
		var err error
		lex, err = p.lexicon.LoadFile(p.opts.LexiconPath)
		if err != nil {
			return err
		}
		res.LexiconEntries = lex.Len()
		if p.metrics != nil {
			p.metrics.LexiconEntries.Set(float64(lex.Len()))
		}
		p.logger.InfoContext(ctx, "Equities loaded",
			slog.Int("names", lex.Len()),
			slog.Int("tickers", len(lex.Tickers())))
		return nil
	}); err != nil {
		return err
	}

	if err := p.runStage(ctx, res, StageAuthenticate, func(ctx context.Context) error {
		creds, err := p.creds()
		if err != nil {
			return apperrors.NewAuthError("failed to load reddit credentials", err)
		}
		return p.source.Authenticate(ctx, creds)
	}); err != nil {
		return err
	}

	if err := p.runStage(ctx, res, StageFindSubmission, func(ctx context.Context) error {
		sub, err := p.source.FindDailyThread(ctx, p.opts.Subreddit, p.opts.TitleMarker, p.opts.HotLimit)
		if err != nil {
			return err
		}
		res.Submission = sub
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("reddit.submission_id", sub.ID),
			attribute.String("reddit.submission_title", sub.Title),
		)
		p.logger.InfoContext(ctx, "Submission selected",
			slog.String("submission_id", sub.ID),
			slog.String("title", sub.Title))
		return nil
	}); err != nil {
		return err
	}

	if err := p.runStage(ctx, res, StageFetchComments, func(ctx context.Context) error {
		var err error
		comments, err = p.source.FetchComments(ctx, res.Submission)
		if err != nil {
			return err
		}
		res.CommentsFetched = len(comments)
		if p.metrics != nil {
			p.metrics.CommentsFetched.Set(float64(len(comments)))
		}
		p.logger.InfoContext(ctx, "Comments fetched", slog.Int("count", len(comments)))
		return nil
	}); err != nil {
		return err
	}

	if err := p.runStage(ctx, res, StageMatch, func(ctx context.Context) error {
		agg := mentions.NewAggregator(lex)
		for _, text := range domain.CommentTexts(comments) {
			agg.Add(text)
		}
		res.Tally = agg.Tally()
		res.CommentsMatched = agg.Matched()
		if p.metrics != nil {
			p.metrics.CommentsMatched.Set(float64(agg.Matched()))
			p.metrics.ObserveTally(res.Tally)
		}
		p.logger.InfoContext(ctx, "Mentions counted",
			slog.Int("comments_scanned", agg.Scanned()),
			slog.Int("comments_matched", agg.Matched()),
			slog.Int("tickers", len(res.Tally)),
			slog.Int("mentions", res.Tally.Total()))
		return nil
	}); err != nil {
		return err
	}

	return p.runStage(ctx, res, StageExport, func(ctx context.Context) error {
		path, err := p.sink.Export(buildReport(res))
		if err != nil {
			return err
		}
		res.ReportPath = path
		return nil
	})
}

func buildReport(res *Result) domain.MentionReport {
	entries := res.Tally.Sorted()
	rows := make([]domain.MentionRow, len(entries))
	for i, e := range entries {
		rows[i] = domain.MentionRow{Ticker: e.Ticker, Mentions: e.Mentions}
	}
	return domain.MentionReport{
		RunID:        res.RunID,
		GeneratedAt:  res.StartedAt,
		SubmissionID: res.Submission.ID,
		Rows:         rows,
	}
}
