package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/format"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/interpret"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

// Pipeline is one prompt -> model -> interpreter round.
type Pipeline struct {
	log     *logger.Logger
	gen     llm.Generator
	catalog *prompts.Catalog
}

type PipelineOutput struct {
	Result     interpret.Result
	Completion llm.Completion
}

func NewPipeline(log *logger.Logger, gen llm.Generator, catalog *prompts.Catalog) *Pipeline {
	if catalog == nil {
		catalog = prompts.DefaultCatalog()
	}
	return &Pipeline{
		log:     log.With("service", "Pipeline"),
		gen:     gen,
		catalog: catalog,
	}
}

func (p *Pipeline) Catalog() *prompts.Catalog { return p.catalog }

func (p *Pipeline) Provider() string { return p.gen.Provider() }

// CanonicalRole maps aliases ("ml engineer") onto catalog names. Unknown roles
// are kept as typed.
func (p *Pipeline) CanonicalRole(role string) string {
	if r, ok := p.catalog.Lookup(role); ok {
		return r.Name
	}
	return role
}

func (p *Pipeline) Run(ctx context.Context, in prompts.Input) (*PipelineOutput, error) {
	prompt, err := prompts.BuildWith(p.catalog, in)
	if err != nil {
		if errors.Is(err, prompts.ErrInvalidInput) {
			return nil, apierr.BadRequest(err)
		}
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	completion, err := p.gen.Generate(ctx, in.Kind, prompt)
	if err != nil {
		return nil, err
	}
	shape := format.ShapeFor(in.Kind)
	res, err := interpret.Interpret(completion.Text, shape)
	if err != nil {
		observability.Current().IncParseOutcome(string(shape), "failed")
		var pe *interpret.ParseError
		if errors.As(err, &pe) {
			p.log.Warn("model output not parseable",
				"kind", string(in.Kind),
				"reason", pe.Reason,
				"model", completion.Model,
			)
		}
		return nil, err
	}
	outcome := "ok"
	if res.Partial {
		outcome = "partial"
	}
	observability.Current().IncParseOutcome(string(shape), outcome)
	return &PipelineOutput{Result: res, Completion: completion}, nil
}

// planFromResult converts interpreted phases into unsaved plan rows.
func planFromResult(res interpret.Result) []*coaching.PlanPhase {
	phases := make([]*coaching.PlanPhase, 0, len(res.Phases))
	for _, ph := range res.Phases {
		row := &coaching.PlanPhase{Title: ph.Title}
		for _, m := range ph.Modules {
			row.Modules = append(row.Modules, &coaching.PlanModule{Name: m.Name, Resource: m.Resource})
		}
		phases = append(phases, row)
	}
	return phases
}
