package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/hoidap/internal/textnorm"
)

var exitWords = []string{"exit", "quit", "thoát"}

// newChatCmd creates the interactive chat subcommand.
func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Answer questions interactively",
		Long: `Chat loads the reference tables once and answers questions typed at the
prompt until end of input or one of: exit, quit, thoát.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, src, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			out := cmd.OutOrStdout()
			term := newTerminal(out, cmd.ErrOrStderr())

			if !outputJSON {
				if samples := s.Samples(); len(samples) > 0 {
					term.ShowInfo("Câu hỏi mẫu:")
					term.ShowList(samples)
				}
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if !outputJSON {
					fmt.Fprint(out, "\nNhập câu hỏi của bạn: ")
				}
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if isExit(question) {
					break
				}

				resp := s.Ask(ctx, question)
				if err := show(out, cmd.ErrOrStderr(), s.ID(), question, resp); err != nil {
					return err
				}
			}
			if !outputJSON {
				fmt.Fprintln(out)
			}
			return scanner.Err()
		},
	}
}

func isExit(input string) bool {
	folded := textnorm.Fold(input)
	for _, w := range exitWords {
		if folded == w {
			return true
		}
	}
	return false
}
