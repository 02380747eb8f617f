package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagepack/internal/adapters/cli"
	"github.com/3-lines-studio/pagepack/internal/adapters/env"
	fsadapter "github.com/3-lines-studio/pagepack/internal/adapters/fs"
	"github.com/3-lines-studio/pagepack/internal/config"
	"github.com/3-lines-studio/pagepack/internal/core"
	"github.com/3-lines-studio/pagepack/internal/scan"
	"github.com/3-lines-studio/pagepack/internal/usecase"
)

type app struct {
	configPath string
	mode       string
	outDir     string
	logLevel   string
	noColor    bool

	output *cli.Output
	fs     *fsadapter.AferoFileSystem
	logger *log.Logger
}

func newApp() *app {
	return &app{
		output: cli.NewOutput(),
		fs:     fsadapter.NewOSFileSystem(),
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "pagepack"}),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pagepack",
		Short:         "Bundle entry points into hashed assets and static HTML pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := log.ParseLevel(a.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
			}
			a.logger.SetLevel(level)
			if a.noColor {
				a.output.DisableColors()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.FileName, "path to the configuration file")
	flags.StringVarP(&a.mode, "mode", "m", "", "build mode: production or development (default from "+env.ModeVar+")")
	flags.StringVar(&a.logLevel, "log-level", env.LogLevel(), "log level: debug, info, warn or error")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.buildCmd(),
		a.watchCmd(),
		a.serveCmd(),
		a.initCmd(),
		a.doctorCmd(),
	)
	return root
}

// resolveMode prefers the --mode flag, then PAGEPACK_MODE, then fallback.
func (a *app) resolveMode(fallback core.Mode) (core.Mode, error) {
	if a.mode != "" {
		return core.ParseMode(a.mode)
	}
	if os.Getenv(env.ModeVar) != "" {
		return env.DetectMode()
	}
	return fallback, nil
}

func (a *app) loadConfig(mode core.Mode) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path: a.configPath,
		Mode: mode,
		Fs:   a.fs.Afero(),
	})
	if err != nil {
		return nil, err
	}

	if a.outDir != "" {
		abs, err := filepath.Abs(a.outDir)
		if err != nil {
			return nil, fmt.Errorf("resolve output directory: %w", err)
		}
		cfg.Output.Path = abs
	}
	return cfg, nil
}

func (a *app) buildService() *usecase.BuildService {
	return usecase.NewBuildService(a.fs, scan.NewImportScanner(), a.output, a.logger)
}

func (a *app) addOutFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.outDir, "out", "o", "", "output directory (overrides output.path)")
}
