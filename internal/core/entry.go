package core

import (
	"fmt"
	"sort"
	"strings"
)

type EntryPoint struct {
	Name   string
	Source string
}

// SortedEntries turns a name-to-source map into entry points ordered by name.
func SortedEntries(entries map[string]string) []EntryPoint {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]EntryPoint, 0, len(names))
	for _, name := range names {
		result = append(result, EntryPoint{Name: name, Source: entries[name]})
	}
	return result
}

func ValidateEntries(entries []EntryPoint) error {
	if len(entries) == 0 {
		return NewConfigError("validate entries", "", fmt.Errorf("%w: no entries declared", ErrMissingEntry))
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return NewConfigError("validate entry", entry.Source, fmt.Errorf("entry name cannot be empty"))
		}
		if strings.Contains(entry.Name, SharedChunkSeparator) {
			return NewConfigError("validate entry", entry.Name, fmt.Errorf("entry name cannot contain %q", SharedChunkSeparator))
		}
		if seen[entry.Name] {
			return NewConfigError("validate entry", entry.Name, ErrDuplicateEntry)
		}
		seen[entry.Name] = true
		if entry.Source == "" {
			return NewConfigError("validate entry", entry.Name, fmt.Errorf("%w: empty source path", ErrMissingEntry))
		}
	}
	return nil
}
