package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/hoidap/internal/reference"
)

// newSamplesCmd creates the samples subcommand.
func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the sample questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := reference.LoadSampleQuestions(cfg.Samples.Path)
			if err != nil {
				return err
			}

			if outputJSON {
				if samples == nil {
					samples = []string{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string][]string{"samples": samples})
			}

			term := newTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if len(samples) == 0 {
				term.ShowWarning("Không có câu hỏi mẫu.")
				return nil
			}
			term.ShowList(samples)
			return nil
		},
	}
}
