package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/pagepack/internal/core"
)

// link rewrites every processed script module into a registry factory body.
// Relative imports resolve through the graph; a target that produced no
// script, such as an extracted stylesheet, imports as an empty object. Bare
// specifiers stay as require calls and must be defined by another script.
func (s *BuildService) link(ctx context.Context, g *core.Graph, processed map[string]*core.ProcessedModule, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for _, id := range sortedKeys(processed) {
		mod := processed[id]
		if mod.Kind != core.KindScript {
			continue
		}
		source := g.Modules[id]
		eg.Go(func() error {
			resolve := func(spec string) (string, bool) {
				if source == nil {
					return spec, true
				}
				dep, ok := source.Resolved[spec]
				if !ok {
					return spec, true
				}
				target := processed[dep]
				return dep, target != nil && target.Kind == core.KindScript
			}
			content, err := s.scanner.Rewrite(ctx, mod.Content, resolve)
			if err != nil {
				return fmt.Errorf("link %s: %w", id, err)
			}
			mod.Content = content
			return nil
		})
	}
	return eg.Wait()
}

// entryRoot is the module an entry chunk requires when it loads. Shared
// chunks and entries rooted at a stylesheet have none.
func entryRoot(g *core.Graph, chunk core.Chunk, processed map[string]*core.ProcessedModule) string {
	if chunk.Shared {
		return ""
	}
	root, ok := g.Root(chunk.Name)
	if !ok {
		return ""
	}
	if mod := processed[root]; mod == nil || mod.Kind != core.KindScript {
		return ""
	}
	return root
}
