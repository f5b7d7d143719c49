package main

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/spf13/cobra"
)

type compileOutput struct {
	Text     string           `json:"text"`
	Runes    int              `json:"runes"`
	Segments []domain.Segment `json:"segments"`
}

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <markup>...",
		Short: "Print the effect segments of one or more markup pieces as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, closeStore, err := a.engine(ctx, "")
			if err != nil {
				return err
			}
			defer closeStore()

			outputs := make([]compileOutput, 0, len(args))
			for _, text := range args {
				segments, err := eng.Configure(ctx, text)
				if err != nil {
					return err
				}
				preset, err := eng.Compile(ctx, text)
				if err != nil {
					return err
				}
				outputs = append(outputs, compileOutput{
					Text:     preset.Text,
					Runes:    utf8.RuneCountInString(preset.Text),
					Segments: segments,
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outputs)
		},
	}
}
