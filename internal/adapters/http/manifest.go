package http

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/3-lines-studio/pagepack/internal/core"
)

// LoadManifest reads the manifest the last build wrote into dir.
func LoadManifest(fs afero.Fs, dir string) (*core.Manifest, error) {
	data, err := afero.ReadFile(fs, filepath.Join(dir, core.ManifestFile))
	if err != nil {
		return nil, err
	}
	man, err := core.ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", core.ManifestFile, err)
	}
	return man, nil
}

// PageURL is the clean URL the router serves a page filename under.
func PageURL(filename string) string {
	if path.Ext(filename) != ".html" {
		return "/" + filename
	}
	name := strings.TrimSuffix(filename, ".html")
	if name == "index" {
		return "/"
	}
	return "/" + name
}
