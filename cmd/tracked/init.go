package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tracked/internal/config"
	"github.com/vango-dev/tracked/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default tracked.json",
		Long: `Write tracked.json with every setting at its default value.

Examples:
  tracked init
  tracked init ./deploy --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := runInit(dir, force)
			if err != nil {
				return err
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing tracked.json")

	return cmd
}

func runInit(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.ConfigFileName)
	if config.Exists(dir) && !force {
		return "", errors.Newf(errors.CategoryCLI, "%s already exists", path).
			WithSuggestion("Pass --force to overwrite it")
	}
	if err := config.New().SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}
