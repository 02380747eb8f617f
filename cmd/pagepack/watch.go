package main

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/3-lines-studio/pagepack/internal/adapters/http"
	"github.com/3-lines-studio/pagepack/internal/core"
	"github.com/3-lines-studio/pagepack/internal/usecase"
	"github.com/3-lines-studio/pagepack/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		addr     string
		debounce = watch.DefaultDebounce
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild on every source change (development mode by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := a.resolveMode(core.ModeDevelopment)
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(mode)
			if err != nil {
				return err
			}

			state := &buildState{}
			var reloader *httpadapter.Reloader
			if addr != "" {
				reloader = httpadapter.NewReloader()
			}
			rebuild := func(ctx context.Context, changed []string) error {
				if len(changed) > 0 {
					a.logger.Info("rebuilding", "changed", changed)
				}
				err := a.rebuild(ctx, mode)
				state.set(err)
				if reloader != nil {
					reloader.Notify()
				}
				return err
			}

			if err := rebuild(cmd.Context(), nil); err != nil {
				a.logger.Error("initial build failed", "error", err)
			}

			w, err := watch.New(watch.Options{
				Dir:      cfg.RootDir(),
				Ignore:   outputIgnores(cfg.RootDir(), cfg.OutputDir()),
				Debounce: debounce,
				OnChange: rebuild,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return w.Run(ctx)
			})
			if addr != "" {
				g.Go(func() error {
					return a.serve(ctx, addr, httpadapter.RouterOptions{
						Dir:      cfg.OutputDir(),
						State:    state,
						Reloader: reloader,
						IsDev:    !mode.IsProduction(),
					})
				})
			}
			a.output.PrintStep("Watching %s", cfg.RootDir())
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "serve", "", "also serve the output directory on this address")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before rebuilding")
	a.addOutFlag(cmd)
	return cmd
}

// outputIgnores keeps the build from retriggering itself when the output
// directory lives inside the watched root.
func outputIgnores(root, outDir string) []string {
	rel, err := filepath.Rel(root, outDir)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil
	}
	return []string{rel + "/**"}
}

// rebuild reloads the configuration so edits to it apply, then builds.
func (a *app) rebuild(ctx context.Context, mode core.Mode) error {
	cfg, err := a.loadConfig(mode)
	if err != nil {
		return err
	}
	return a.buildService().Build(ctx, usecase.BuildInput{Config: cfg}).Error
}

// buildState remembers the outcome of the last watch build.
type buildState struct {
	mu  sync.Mutex
	err error
}

func (s *buildState) set(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *buildState) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
