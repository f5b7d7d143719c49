package main

import (
	"fmt"

	"github.com/aretw0/quill/internal/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check every script for markup errors",
		Long:  `Loads every script in the scripts directory and parses each part, reporting all broken scripts at once.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Scripts
			if len(args) > 0 {
				dir = args[0]
			}
			eng, closeStore, err := a.engine(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("failed to init engine: %w", err)
			}
			defer closeStore()

			if err := validator.ValidateScripts(cmd.Context(), eng); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All scripts are valid.")
			return nil
		},
	}
}
