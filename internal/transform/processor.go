package transform

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/pagepack/internal/core"
)

const defaultConcurrency = 4

type Processor struct {
	rules       core.RuleSet
	env         Env
	concurrency int
	logger      *log.Logger
}

func NewProcessor(rules core.RuleSet, env Env, concurrency int, logger *log.Logger) *Processor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{
		rules:       rules,
		env:         env,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process runs every module through its matching rule concurrently. The
// first failure cancels the remaining work.
func (p *Processor) Process(ctx context.Context, modules []*core.Module) (map[string]*core.ProcessedModule, error) {
	results := make([]*core.ProcessedModule, len(modules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, mod := range modules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			processed, err := p.processModule(mod)
			if err != nil {
				return err
			}
			results[i] = processed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*core.ProcessedModule, len(results))
	for _, processed := range results {
		out[processed.ID] = processed
	}
	return out, nil
}

func (p *Processor) processModule(mod *core.Module) (*core.ProcessedModule, error) {
	rule, err := p.rules.Match(mod.ID)
	if err != nil {
		return nil, err
	}

	unit := &Unit{ProcessedModule: core.ProcessedModule{
		ID:      mod.ID,
		Kind:    core.KindForPath(mod.ID),
		Content: mod.Source,
	}}

	if rule == nil {
		if unit.Kind == core.KindResource {
			if err := assetStep(core.AssetTypeResource)(unit, p.env); err != nil {
				return nil, fmt.Errorf("process %s: emit resource: %w", mod.ID, err)
			}
			p.logger.Debug("unmatched resource", "module", mod.ID, "file", unit.Emitted[0].Filename)
			return &unit.ProcessedModule, nil
		}
		p.logger.Debug("passthrough", "module", mod.ID)
		return &unit.ProcessedModule, nil
	}

	for _, name := range rule.Steps() {
		step, err := Lookup(name)
		if err != nil {
			return nil, core.NewConfigError("process", mod.ID, err)
		}
		if err := step(unit, p.env); err != nil {
			return nil, fmt.Errorf("process %s: step %s: %w", mod.ID, name, err)
		}
	}

	if unit.Kind == core.KindStyle && !unit.Extract {
		if err := injectStyle(unit); err != nil {
			return nil, fmt.Errorf("process %s: inject style: %w", mod.ID, err)
		}
	}

	p.logger.Debug("processed", "module", mod.ID, "rule", rule.Name, "kind", unit.Kind)
	return &unit.ProcessedModule, nil
}
