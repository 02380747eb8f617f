package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagepack/internal/adapters/cli"
	httpadapter "github.com/3-lines-studio/pagepack/internal/adapters/http"
	"github.com/3-lines-studio/pagepack/internal/core"
)

const defaultAddr = "127.0.0.1:8080"

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the output directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := a.resolveMode(core.ModeProduction)
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(mode)
			if err != nil {
				return err
			}
			a.printPages(cfg.OutputDir(), addr)
			return a.serve(cmd.Context(), addr, httpadapter.RouterOptions{
				Dir:   cfg.OutputDir(),
				IsDev: !mode.IsProduction(),
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	a.addOutFlag(cmd)
	return cmd
}

// printPages lists the page URLs of the build in dir, or warns when dir
// holds no build.
func (a *app) printPages(dir, addr string) {
	man, err := httpadapter.LoadManifest(a.fs.Afero(), dir)
	if err != nil {
		a.logger.Debug("load manifest", "dir", dir, "error", err)
		a.output.PrintWarning("No build found in %s, run pagepack build first", dir)
		return
	}
	for _, page := range man.Pages {
		a.output.PrintFile(cli.URL(addr) + httpadapter.PageURL(page.Filename))
	}
}

// serve blocks until ctx is canceled, then shuts the server down.
func (a *app) serve(ctx context.Context, addr string, opts httpadapter.RouterOptions) error {
	opts.Fs = a.fs.Afero()
	opts.Logger = a.logger
	server := &http.Server{
		Addr:              addr,
		Handler:           httpadapter.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		// open reload streams end with ctx instead of stalling Shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	a.output.PrintSuccess("Serving %s on %s", opts.Dir, a.output.Green(cli.URL(addr)))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
