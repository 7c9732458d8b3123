// Package main provides the hoidap CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/observability"
	"github.com/spherical-ai/hoidap/internal/present"
	"github.com/spherical-ai/hoidap/internal/session"
	"github.com/spherical-ai/hoidap/internal/source"
)

const msgLoadError = "Lỗi khi kết nối Google Sheets/dữ liệu: %w"

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	noColor    bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "hoidap",
	Short: "Question answering over the customer service reference tables",
	Long: `hoidap answers customer questions from a question/answer table and looks up
commune leadership and feeder-line substations from reference tables.

Tables come from a CSV directory, SQLite, Postgres or a shared Google
spreadsheet. All question commands support --json for automation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}
		logFormat := cfg.Observability.LogFormat
		if outputJSON {
			logFormat = "json"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      logFormat,
			ServiceName: cfg.Observability.ServiceName,
		})

		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSamplesCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		newTerminal(os.Stdout, os.Stderr).ShowError(err.Error())
		os.Exit(1)
	}
}

func newTerminal(out, errOut io.Writer) *present.Terminal {
	return present.NewTerminal(out, errOut, noColor || !isTerminal())
}

// openSession connects the configured source and loads the session tables
// behind a spinner. The returned source must be closed by the caller.
func openSession(ctx context.Context) (*session.Session, source.Source, error) {
	spin := present.NewSpinner(os.Stderr, "Đang tải dữ liệu...", !outputJSON && isTerminal())
	spin.Start()
	defer spin.Stop()

	src, err := source.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf(msgLoadError, err)
	}

	s, err := session.Open(ctx, src, cfg, logger)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf(msgLoadError, err)
	}
	return s, src, nil
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
