package core

import (
	"fmt"
	"sort"
)

type Module struct {
	ID       string
	Source   []byte
	Imports  []string
	// Resolved maps each relative specifier in Source to the module id it
	// resolved to.
	Resolved map[string]string
}

func (m *Module) Size() int {
	return len(m.Source)
}

// Graph is the module dependency graph of every entry point in one build.
type Graph struct {
	Modules map[string]*Module
	Entries []EntryPoint
	roots   map[string]string
}

func NewGraph(entries []EntryPoint) *Graph {
	return &Graph{
		Modules: make(map[string]*Module),
		Entries: entries,
		roots:   make(map[string]string, len(entries)),
	}
}

func (g *Graph) Add(m *Module) {
	g.Modules[m.ID] = m
}

func (g *Graph) SetRoot(entryName, moduleID string) {
	g.roots[entryName] = moduleID
}

func (g *Graph) Root(entryName string) (string, bool) {
	id, ok := g.roots[entryName]
	return id, ok
}

// Reachable lists the modules reachable from an entry, dependencies before
// dependents, following imports in source order.
func (g *Graph) Reachable(entryName string) ([]string, error) {
	root, ok := g.roots[entryName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, entryName)
	}

	var order []string
	visited := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return nil
		}
		visited[id] = true

		mod, ok := g.Modules[id]
		if !ok {
			return fmt.Errorf("%w: module %s is not in the graph", ErrUnresolvedImport, id)
		}
		for _, dep := range mod.Imports {
			if err := visit(dep); err != nil {
				return err
			}
		}
		order = append(order, id)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// Reach maps every module to the sorted names of the entries reaching it.
func (g *Graph) Reach() (map[string][]string, error) {
	reach := make(map[string][]string)
	for _, entry := range g.Entries {
		ids, err := g.Reachable(entry.Name)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			reach[id] = append(reach[id], entry.Name)
		}
	}
	for id := range reach {
		sort.Strings(reach[id])
	}
	return reach, nil
}
