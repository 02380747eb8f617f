package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/3-lines-studio/pagepack/internal/core"
)

type resolvedGraph struct {
	graph *core.Graph
	// externals maps a bare specifier to the modules importing it.
	externals map[string][]string
}

// resolveGraph reads every entry and follows its relative imports until the
// whole module graph is loaded.
func (s *BuildService) resolveGraph(ctx context.Context, root string, entries []core.EntryPoint, extensions []string) (*resolvedGraph, error) {
	result := &resolvedGraph{
		graph:     core.NewGraph(entries),
		externals: make(map[string][]string),
	}

	var queue []string
	for _, entry := range entries {
		file := entry.Source
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, filepath.FromSlash(file))
		}
		id, err := core.ModuleID(root, file)
		if err != nil {
			return nil, core.NewConfigError("resolve entry", entry.Name, err)
		}
		if !s.fs.FileExists(file) {
			return nil, core.NewConfigError("resolve entry", entry.Name, fmt.Errorf("%w: %s", core.ErrMissingEntry, entry.Source))
		}
		result.graph.SetRoot(entry.Name, id)
		queue = append(queue, id)
	}

	loaded := make(map[string]bool)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := queue[0]
		queue = queue[1:]
		if loaded[id] {
			continue
		}
		loaded[id] = true

		mod, err := s.loadModule(ctx, root, id, extensions, result)
		if err != nil {
			return nil, err
		}
		result.graph.Add(mod)
		queue = append(queue, mod.Imports...)
	}

	s.logger.Debug("resolved module graph", "modules", len(result.graph.Modules), "externals", len(result.externals))
	return result, nil
}

func (s *BuildService) loadModule(ctx context.Context, root, id string, extensions []string, result *resolvedGraph) (*core.Module, error) {
	source, err := s.fs.ReadFile(filepath.Join(root, filepath.FromSlash(id)))
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", id, err)
	}

	specs, err := s.scanner.Imports(ctx, id, source)
	if err != nil {
		return nil, fmt.Errorf("scan imports of %s: %w", id, err)
	}

	mod := &core.Module{ID: id, Source: source, Resolved: make(map[string]string)}
	seen := make(map[string]bool)
	for _, spec := range specs {
		if core.IsStyleSource(id) {
			spec = styleImportSpec(spec)
		}
		if !core.IsRelativeImport(spec) {
			result.externals[spec] = append(result.externals[spec], id)
			continue
		}

		dep, err := s.resolveImport(root, id, spec, extensions)
		if err != nil {
			return nil, err
		}
		mod.Resolved[spec] = dep
		if !seen[dep] {
			seen[dep] = true
			mod.Imports = append(mod.Imports, dep)
		}
	}
	return mod, nil
}

func (s *BuildService) resolveImport(root, importerID, spec string, extensions []string) (string, error) {
	for _, candidate := range core.ImportCandidates(importerID, spec, extensions) {
		if candidate == ".." || strings.HasPrefix(candidate, "../") {
			break
		}
		if s.fs.FileExists(filepath.Join(root, filepath.FromSlash(candidate))) {
			return candidate, nil
		}
	}
	return "", core.NewConfigError("resolve import", importerID, fmt.Errorf("%w: %q", core.ErrUnresolvedImport, spec))
}

// styleImportSpec treats a stylesheet import without a scheme or leading
// slash as relative to the importing stylesheet.
func styleImportSpec(spec string) string {
	if core.IsRelativeImport(spec) || strings.HasPrefix(spec, "/") || strings.Contains(spec, "://") {
		return spec
	}
	return "./" + spec
}

// sortedModules returns the graph's modules ordered by id.
func sortedModules(g *core.Graph) []*core.Module {
	ids := make([]string, 0, len(g.Modules))
	for id := range g.Modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	modules := make([]*core.Module, 0, len(ids))
	for _, id := range ids {
		modules = append(modules, g.Modules[id])
	}
	return modules
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
