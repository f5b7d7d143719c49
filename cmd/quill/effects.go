package main

import (
	"fmt"

	"github.com/aretw0/quill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newEffectsCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "effects",
		Short: "List the registered effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeStore, err := a.engine(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer closeStore()

			md := tui.EffectsMarkdown(eng.Effects())
			out := cmd.OutOrStdout()
			if raw || !colorful(out) {
				_, err := fmt.Fprint(out, md)
				return err
			}
			rendered, err := tui.NewRenderer()(md)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print Markdown without rendering it")
	return cmd
}
