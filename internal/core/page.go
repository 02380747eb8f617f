package core

import (
	"fmt"
)

const DefaultMount = "app"

type ComponentRef struct {
	Name    string
	Content string
}

// Page describes one generated HTML document.
type Page struct {
	Title       string
	Description string
	Filename    string
	Template    string
	Chunks      []string
	Mount       string
	Components  []ComponentRef
	Vars        map[string]string
}

func (p Page) Validate(entries []EntryPoint) error {
	if err := ValidateOutputFilename(p.Filename); err != nil {
		return NewConfigError("validate page", p.Filename, err)
	}
	if len(p.Chunks) == 0 {
		return NewConfigError("validate page", p.Filename, fmt.Errorf("%w: page lists no chunks", ErrUnknownChunk))
	}

	declared := make(map[string]bool, len(entries))
	for _, entry := range entries {
		declared[entry.Name] = true
	}
	for _, name := range p.Chunks {
		if !declared[name] {
			return NewConfigError("validate page", p.Filename, fmt.Errorf("%w: %q", ErrUnknownChunk, name))
		}
	}
	return nil
}

func ValidatePages(pages []Page, entries []EntryPoint) error {
	seen := make(map[string]bool, len(pages))
	for _, page := range pages {
		if err := page.Validate(entries); err != nil {
			return err
		}
		if seen[page.Filename] {
			return NewConfigError("validate page", page.Filename, fmt.Errorf("%w: declared twice", ErrInvalidFilename))
		}
		seen[page.Filename] = true
	}
	return nil
}
