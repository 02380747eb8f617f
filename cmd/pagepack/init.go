package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagepack/internal/usecase"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter site with two pages sharing one template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
			out := usecase.NewInitService(a.fs, a.output).InitProject(usecase.InitInput{ProjectDir: dir})
			return out.Error
		},
	}
}
