package usecase

import (
	"bytes"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/3-lines-studio/pagepack/internal/adapters/cli"
	"github.com/3-lines-studio/pagepack/internal/config"
	"github.com/3-lines-studio/pagepack/internal/core"
)

// checkOutputDir refuses an output directory that holds the project root or
// any module of the graph, since cleaning it would delete sources.
func checkOutputDir(root, outDir string, g *core.Graph) error {
	if within(outDir, root) {
		return core.NewConfigError("check output", outDir, fmt.Errorf("%w: it contains the project root", core.ErrUnsafeOutputDir))
	}
	for _, id := range sortedKeys(g.Modules) {
		if within(outDir, filepath.Join(root, filepath.FromSlash(id))) {
			return core.NewConfigError("check output", outDir, fmt.Errorf("%w: it contains %s", core.ErrUnsafeOutputDir, id))
		}
	}
	return nil
}

func within(dir, file string) bool {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

type outputClaim struct {
	owner    string
	content  []byte
	reserved bool
}

// outputClaims records which part of the build writes each output file.
type outputClaims map[string]outputClaim

// newOutputClaims reserves the manifest filename for the manifest itself.
func newOutputClaims() outputClaims {
	return outputClaims{core.ManifestFile: {owner: "the manifest", reserved: true}}
}

// claim records that owner writes content to filename. It reports a
// duplicate when the file is already claimed with the same content, and
// fails when two owners would write different content to one file.
func (c outputClaims) claim(filename, owner string, content []byte) (bool, error) {
	prev, ok := c[filename]
	if !ok {
		c[filename] = outputClaim{owner: owner, content: content}
		return false, nil
	}
	if !prev.reserved && bytes.Equal(prev.content, content) {
		return true, nil
	}
	return false, core.NewConfigError("name output", filename,
		fmt.Errorf("%w: %s and %s write different content", core.ErrInvalidFilename, prev.owner, owner))
}

// cleanOutput removes everything under outDir matching one of the clean
// patterns. A matching directory is removed with its contents.
func (s *BuildService) cleanOutput(outDir string, patterns []string) error {
	if !s.fs.IsDir(outDir) {
		return s.fs.MkdirAll(outDir, 0755)
	}

	removed := 0
	err := s.fs.Walk(outDir, func(path string, info iofs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == outDir {
			return nil
		}

		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		if !matchAny(patterns, filepath.ToSlash(rel)) {
			return nil
		}

		if info.IsDir() {
			if err := s.fs.RemoveAll(path); err != nil {
				return fmt.Errorf("remove %s: %w", path, err)
			}
			removed++
			return filepath.SkipDir
		}
		if err := s.fs.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
		return nil
	})
	if err != nil {
		return fmt.Errorf("clean %s: %w", outDir, err)
	}

	s.logger.Debug("cleaned output", "dir", outDir, "removed", removed)
	return nil
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}

// writeOutput writes public files, assets, emitted resources, pages and
// finally the manifest. Generated files overwrite public files of the same
// name.
func (s *BuildService) writeOutput(cfg *config.Config, plan *buildPlan, report *cli.BuildReport) ([]string, error) {
	outDir := cfg.OutputDir()
	var written []string

	write := func(name string, data []byte) error {
		if err := core.ValidateOutputFilename(name); err != nil {
			return err
		}
		target := filepath.Join(outDir, filepath.FromSlash(name))
		if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", name, err)
		}
		if err := s.fs.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
		return nil
	}

	if cfg.PublicDir != "" {
		publicDir := filepath.Join(cfg.RootDir(), cfg.PublicDir)
		if err := s.copyPublicDir(publicDir, write); err != nil {
			report.AddWarning("Public assets", "Failed to copy public assets", []string{err.Error()})
		}
	}

	for _, asset := range plan.assets {
		if err := write(asset.Filename, asset.Content); err != nil {
			return written, err
		}
	}
	for _, resource := range plan.resources {
		if err := write(resource.Filename, resource.Content); err != nil {
			return written, err
		}
	}
	for _, page := range plan.pages {
		if err := write(page.Filename, page.Content); err != nil {
			return written, err
		}
	}

	data, err := plan.manifest.Marshal()
	if err != nil {
		return written, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := write(core.ManifestFile, data); err != nil {
		return written, err
	}

	s.logger.Debug("wrote output", "dir", outDir, "files", len(written))
	return written, nil
}

func (s *BuildService) copyPublicDir(src string, write func(name string, data []byte) error) error {
	if !s.fs.IsDir(src) {
		return nil
	}

	return s.fs.Walk(src, func(path string, info iofs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		return write(filepath.ToSlash(rel), data)
	})
}
