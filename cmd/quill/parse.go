package main

import (
	"github.com/aretw0/quill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <markup>",
		Short: "Print the tokens of a markup string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeStore, err := a.engine(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer closeStore()

			tokens, err := eng.Parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tui.WriteTokens(out, tokens, colorful(out))
			return nil
		},
	}
}
