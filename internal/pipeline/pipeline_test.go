package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
	"mentionscli/internal/infrastructure"
	"mentionscli/internal/lexicon"
	"mentionscli/internal/mentions"
	"mentionscli/pkg/contracts/domain"
)

type fakeLexicon struct {
	lex  *lexicon.Lexicon
	err  error
	path string
}

func (f *fakeLexicon) LoadFile(path string) (*lexicon.Lexicon, error) {
	f.path = path
	return f.lex, f.err
}

type fakeSource struct {
	authErr     error
	findErr     error
	fetchErr    error
	sub         domain.Submission
	comments    []domain.Comment
	gotCreds    *config.RedditCredentials
	gotLimit    int
	gotMarker   string
	fetchedFrom string
}

func (f *fakeSource) Authenticate(ctx context.Context, creds *config.RedditCredentials) error {
	f.gotCreds = creds
	return f.authErr
}

func (f *fakeSource) FindDailyThread(ctx context.Context, subreddit, marker string, limit int) (domain.Submission, error) {
	f.gotMarker = marker
	f.gotLimit = limit
	return f.sub, f.findErr
}

func (f *fakeSource) FetchComments(ctx context.Context, sub domain.Submission) ([]domain.Comment, error) {
	f.fetchedFrom = sub.ID
	return f.comments, f.fetchErr
}

type fakeSink struct {
	report *domain.MentionReport
	err    error
}

func (f *fakeSink) Export(report domain.MentionReport) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.report = &report
	return "/results/" + report.SubmissionID + ".csv", nil
}

type fixture struct {
	lex     *fakeLexicon
	source  *fakeSource
	sink    *fakeSink
	metrics *infrastructure.RunMetrics
	logs    *bytes.Buffer
	credErr error
}

func newFixture() *fixture {
	return &fixture{
		lex: &fakeLexicon{lex: lexicon.New(map[string]string{
			"apple": "aapl",
			"tesla": "tsla",
		})},
		source: &fakeSource{
			sub: domain.Submission{ID: "abc", Title: "What Are Your Moves Tomorrow, May 02, 2024", Stickied: true},
			comments: []domain.Comment{
				{ID: "c1", Body: "Apple and AAPL both up"},
				{ID: "c2", Body: "  tsla calls  "},
				{ID: "c3", Body: "nothing here"},
			},
		},
		sink:    &fakeSink{},
		metrics: infrastructure.NewRunMetrics(),
		logs:    &bytes.Buffer{},
	}
}

func (f *fixture) pipeline() *Pipeline {
	return New(Options{
		LexiconPath: "data/constituents.csv",
		Subreddit:   "wallstreetbets",
		TitleMarker: "what are your moves tomorrow",
		HotLimit:    10,
		StartedAt:   time.Date(2024, 5, 2, 16, 0, 0, 0, time.UTC),
	}, Deps{
		Lexicon: f.lex,
		Credentials: func() (*config.RedditCredentials, error) {
			if f.credErr != nil {
				return nil, f.credErr
			}
			return &config.RedditCredentials{Profile: "bot", Username: "movebot"}, nil
		},
		Source:   f.source,
		Exporter: f.sink,
		Metrics:  f.metrics,
		Logger:   slog.New(slog.NewJSONHandler(f.logs, nil)),
	})
}

func TestPipeline_Run(t *testing.T) {
	f := newFixture()
	ctx := infrastructure.WithRunID(context.Background(), "run-123")

	res, err := f.pipeline().Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "run-123", res.RunID)
	assert.Equal(t, "data/constituents.csv", f.lex.path)
	assert.Equal(t, "movebot", f.source.gotCreds.Username)
	assert.Equal(t, 10, f.source.gotLimit)
	assert.Equal(t, "abc", f.source.fetchedFrom)

	assert.Equal(t, mentions.Tally{"aapl": 2, "tsla": 1}, res.Tally)
	assert.Equal(t, 2, res.LexiconEntries)
	assert.Equal(t, 3, res.CommentsFetched)
	assert.Equal(t, 2, res.CommentsMatched)
	assert.Equal(t, "/results/abc.csv", res.ReportPath)

	require.NotNil(t, f.sink.report)
	assert.Equal(t, []domain.MentionRow{
		{Ticker: "aapl", Mentions: 2},
		{Ticker: "tsla", Mentions: 1},
	}, f.sink.report.Rows)
	assert.Equal(t, res.StartedAt, f.sink.report.GeneratedAt)
	assert.Equal(t, "run-123", f.sink.report.RunID)

	ids := make([]string, len(res.Steps))
	for i, s := range res.Steps {
		ids[i] = s.ID
		assert.Equal(t, StepStatusCompleted, s.Status)
	}
	assert.Equal(t, []string{
		StageLoadLexicon, StageAuthenticate, StageFindSubmission,
		StageFetchComments, StageMatch, StageExport,
	}, ids)

	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.CommentsFetched))
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.CommentsMatched))
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.MentionsTotal))
	assert.Positive(t, testutil.ToFloat64(f.metrics.LastSuccess))

	logs := f.logs.String()
	assert.Contains(t, logs, `"msg":"Equities loaded"`)
	assert.Contains(t, logs, `"submission_id":"abc"`)
	assert.Contains(t, logs, `"msg":"Comments fetched"`)
	assert.Equal(t, 6, strings.Count(logs, `"msg":"Stage completed"`))
}

func TestPipeline_Run_StopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *fixture)
		failStage string
		wantType  apperrors.ErrorType
		ran       int
	}{
		{
			name: "lexicon unreadable",
			setup: func(f *fixture) {
				f.lex.lex = nil
				f.lex.err = apperrors.NewDataError("missing Symbol column", nil)
			},
			failStage: StageLoadLexicon,
			wantType:  apperrors.ErrTypeData,
			ran:       1,
		},
		{
			name:      "credentials missing",
			setup:     func(f *fixture) { f.credErr = errors.New("profile file missing") },
			failStage: StageAuthenticate,
			wantType:  apperrors.ErrTypeAuth,
			ran:       2,
		},
		{
			name:      "authentication rejected",
			setup:     func(f *fixture) { f.source.authErr = apperrors.NewAuthError("token exchange failed", nil) },
			failStage: StageAuthenticate,
			wantType:  apperrors.ErrTypeAuth,
			ran:       2,
		},
		{
			name:      "no daily thread",
			setup:     func(f *fixture) { f.source.findErr = apperrors.NewNotFoundError("pinned thread") },
			failStage: StageFindSubmission,
			wantType:  apperrors.ErrTypeNotFound,
			ran:       3,
		},
		{
			name:      "comment fetch fails",
			setup:     func(f *fixture) { f.source.fetchErr = apperrors.NewNetworkError("timeout", nil) },
			failStage: StageFetchComments,
			wantType:  apperrors.ErrTypeNetwork,
			ran:       4,
		},
		{
			name:      "export fails",
			setup:     func(f *fixture) { f.sink.err = apperrors.NewIOError("report file already exists", nil) },
			failStage: StageExport,
			wantType:  apperrors.ErrTypeIO,
			ran:       6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			res, err := f.pipeline().Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))

			require.Len(t, res.Steps, tt.ran)
			last := res.Steps[len(res.Steps)-1]
			assert.Equal(t, tt.failStage, last.ID)
			assert.Equal(t, StepStatusFailed, last.Status)
			assert.NotEmpty(t, res.RunID)

			assert.Zero(t, testutil.ToFloat64(f.metrics.LastSuccess))
			// One duration series per stage that ran
			assert.Equal(t, tt.ran, testutil.CollectAndCount(f.metrics.StageDuration))
			assert.Contains(t, f.logs.String(), `"msg":"Stage failed"`)
		})
	}
}

func TestPipeline_EmptyThread(t *testing.T) {
	f := newFixture()
	f.source.comments = nil

	res, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Tally)
	require.NotNil(t, f.sink.report)
	assert.Empty(t, f.sink.report.Rows)
}

func TestPipeline_Defaults(t *testing.T) {
	f := newFixture()
	p := New(Options{}, Deps{
		Lexicon:     f.lex,
		Credentials: func() (*config.RedditCredentials, error) { return &config.RedditCredentials{}, nil },
		Source:      f.source,
		Exporter:    f.sink,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	assert.False(t, p.opts.StartedAt.IsZero())
	assert.NotNil(t, p.tracer)

	// Metrics are optional
	_, err := p.Run(context.Background())
	require.NoError(t, err)
}
