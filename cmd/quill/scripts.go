package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScriptsCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "List the scripts in the scripts directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeStore, err := a.engine(cmd.Context(), scriptsDir(a, dir))
			if err != nil {
				return err
			}
			defer closeStore()

			ids, err := eng.Scripts(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scripts found.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Scripts directory (defaults to the config value)")
	return cmd
}

func scriptsDir(a *app, flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Scripts
}
