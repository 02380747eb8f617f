package main

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagepack/internal/core"
	"github.com/3-lines-studio/pagepack/internal/usecase"
)

func (a *app) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Clean the output directory and build every entry and page",
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

			out := a.buildService().Build(cmd.Context(), usecase.BuildInput{Config: cfg})
			if out.Error != nil {
				return out.Error
			}
			a.output.PrintDone("Build completed successfully")
			return nil
		},
	}
	a.addOutFlag(cmd)
	return cmd
}

func (a *app) doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the configuration and resolve the build without writing files",
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

			out := a.buildService().Check(cmd.Context(), usecase.BuildInput{Config: cfg})
			if out.Error != nil {
				return out.Error
			}
			for _, entry := range cfg.EntryPoints() {
				scripts, styles := core.GetAssets(out.Manifest, entry.Name)
				a.output.PrintStep("%s", entry.Name)
				for _, file := range scripts {
					a.output.PrintFile(file)
				}
				for _, file := range styles {
					a.output.PrintFile(file)
				}
			}
			for _, page := range out.Pages {
				a.output.PrintFile(page.Filename)
			}
			a.output.PrintDone("Configuration is valid")
			return nil
		},
	}
	return cmd
}
