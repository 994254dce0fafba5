package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mentionscli/internal/infrastructure"
)

// Stage identifiers, in execution order
const (
	StageLoadLexicon    = "load_lexicon"
	StageAuthenticate   = "authenticate"
	StageFindSubmission = "find_submission"
	StageFetchComments  = "fetch_comments"
	StageMatch          = "match"
	StageExport         = "export"
)

// StepStatus represents the outcome of a stage
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState records how one stage ran
type StepState struct {
	ID       string        `json:"id"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    error         `json:"-"`
}

// runStage executes fn inside a span, logs its start and end, and records its
// duration in the run metrics.
func (p *Pipeline) runStage(ctx context.Context, res *Result, id string, fn func(ctx context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "stage."+id,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", res.RunID),
			attribute.String("stage.id", id),
		),
	)

	p.logger.InfoContext(ctx, "Stage started", slog.String("stage", id))
	start := time.Now()

	err := fn(ctx)

	elapsed := time.Since(start)
	infrastructure.EndSpan(span, err)
	if p.metrics != nil {
		p.metrics.ObserveStage(id, elapsed, err)
	}

	state := StepState{ID: id, Status: StepStatusCompleted, Duration: elapsed}
	if err != nil {
		state.Status = StepStatusFailed
		state.Error = err
		infrastructure.WithError(p.logger, err).ErrorContext(ctx, "Stage failed",
			slog.String("stage", id),
			slog.Duration("duration", elapsed))
	} else {
		p.logger.InfoContext(ctx, "Stage completed",
			slog.String("stage", id),
			slog.Duration("duration", elapsed))
	}
	res.Steps = append(res.Steps, state)

	return err
}
