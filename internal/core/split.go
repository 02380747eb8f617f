package core

import "sort"

type Chunk struct {
	Name    string
	Entries []string
	Modules []string
	Shared  bool
}

type SplitOptions struct {
	// MinSize is the smallest total source size, in bytes, a group of
	// modules shared by the same entries needs to become its own chunk.
	MinSize int
}

// SplitChunks partitions the graph into one chunk per entry plus shared
// chunks. Modules reached by the same set of two or more entries form a
// group; a group at or above MinSize is extracted once, smaller groups are
// duplicated into each entry chunk. Entry chunks come first, ordered by
// entry name, followed by shared chunks ordered by name.
func SplitChunks(g *Graph, opts SplitOptions) ([]Chunk, error) {
	reach, err := g.Reach()
	if err != nil {
		return nil, err
	}

	orders := make(map[string][]string, len(g.Entries))
	for _, entry := range g.Entries {
		ids, err := g.Reachable(entry.Name)
		if err != nil {
			return nil, err
		}
		orders[entry.Name] = ids
	}

	groupSize := make(map[string]int)
	groupEntries := make(map[string][]string)
	for id, entries := range reach {
		if len(entries) < 2 {
			continue
		}
		key := SharedChunkName(entries)
		groupSize[key] += g.Modules[id].Size()
		groupEntries[key] = entries
	}

	promoted := make(map[string]bool)
	for key, size := range groupSize {
		if size >= opts.MinSize {
			promoted[key] = true
		}
	}

	sharedModules := make(map[string][]string)
	seen := make(map[string]bool)
	for _, entry := range g.Entries {
		for _, id := range orders[entry.Name] {
			entries := reach[id]
			if len(entries) < 2 || seen[id] {
				continue
			}
			key := SharedChunkName(entries)
			if promoted[key] {
				seen[id] = true
				sharedModules[key] = append(sharedModules[key], id)
			}
		}
	}

	chunks := make([]Chunk, 0, len(g.Entries)+len(promoted))
	for _, entry := range g.Entries {
		var modules []string
		for _, id := range orders[entry.Name] {
			if len(reach[id]) >= 2 && promoted[SharedChunkName(reach[id])] {
				continue
			}
			modules = append(modules, id)
		}
		chunks = append(chunks, Chunk{
			Name:    entry.Name,
			Entries: []string{entry.Name},
			Modules: modules,
		})
	}

	keys := make([]string, 0, len(promoted))
	for key := range promoted {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		chunks = append(chunks, Chunk{
			Name:    key,
			Entries: groupEntries[key],
			Modules: sharedModules[key],
			Shared:  true,
		})
	}

	return chunks, nil
}

// ChunksForEntry returns the chunks a page for entryName must load: shared
// chunks first, then the entry's own chunk.
func ChunksForEntry(chunks []Chunk, entryName string) []Chunk {
	var shared []Chunk
	var own []Chunk
	for _, chunk := range chunks {
		if !chunk.Shared {
			if chunk.Name == entryName {
				own = append(own, chunk)
			}
			continue
		}
		for _, e := range chunk.Entries {
			if e == entryName {
				shared = append(shared, chunk)
				break
			}
		}
	}
	return append(shared, own...)
}
