package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model"
)

// ErrModelGeneration indicates the language model call itself failed. No
// further reasoning is possible without the model, so this aborts the whole
// invocation instead of being fed back as data.
var ErrModelGeneration = errors.New("model generation failed")

// PlannerOptions configure a Planner.
type PlannerOptions struct {
	// Logger receives planning diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Planner produces exactly one ActionPlan per invocation by calling the
// language model with the full conversation history.
type Planner struct {
	model  model.Model
	logger logging.Logger
}

// NewPlanner constructs a Planner over the given model.
func NewPlanner(m model.Model, optFns ...func(o *PlannerOptions)) *Planner {
	opts := PlannerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Planner{model: m, logger: opts.Logger}
}

// Plan calls the model with history and parses the output into a plan.
//
// A model-call failure wraps ErrModelGeneration and is fatal to the caller.
// Unparsable output wraps ErrMalformedPlan; the orchestrator decides how to
// recover. Agent names are not validated here; an unknown name is detected
// downstream when the orchestrator attempts the call.
func (p *Planner) Plan(ctx context.Context, history []model.Turn) (*ActionPlan, error) {
	start := time.Now()

	text, err := p.model.Generate(ctx, history)
	if err != nil {
		p.logger.Error("model generation failed", "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrModelGeneration, err)
	}
	p.logger.Debug("model generation completed",
		"model", p.model.Info().Name,
		"duration", time.Since(start),
	)

	plan, err := ParsePlan(text)
	if err != nil {
		p.logger.Warn("plan parse failed", "error", err, "raw", text)
		return nil, err
	}

	return plan, nil
}
