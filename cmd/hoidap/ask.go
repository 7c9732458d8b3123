package main

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/hoidap/internal/dispatch"
	"github.com/spherical-ai/hoidap/internal/present"
)

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer a single question",
		Example: `  hoidap ask "giờ làm việc"
  hoidap ask lãnh đạo xã định hóa
  hoidap ask --json "TBA trên đường dây 471E6.22"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s, src, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			question := strings.Join(args, " ")
			resp := s.Ask(ctx, question)
			return show(cmd.OutOrStdout(), cmd.ErrOrStderr(), s.ID(), question, resp)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall time limit")
	return cmd
}

// show writes resp as a JSON line or through the terminal presenter.
func show(w, errOut io.Writer, sessionID, question string, resp dispatch.Response) error {
	if outputJSON {
		return present.WriteJSON(w, sessionID, question, resp)
	}
	present.Render(newTerminal(w, errOut), resp)
	return nil
}
