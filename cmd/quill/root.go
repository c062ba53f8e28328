package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillkit/quill"
)

var (
	verbose bool
	baseDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "A local note store with durable per-record files and self-healing metadata",
	Long: `Quill keeps notes in an in-process indexed cache backed by per-record
JSON files, with a consolidated metadata file for list views that is
reconciled against the record store on every start.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Base storage directory (defaults to the working directory)")
}

// newEngine assembles an engine for a single CLI invocation. Writes run
// inline: the process exits right after the command finishes.
func newEngine() (*quill.Engine, error) {
	return quill.New(
		quill.WithBaseDir(baseDir),
		quill.WithBlockingWrites(true),
		quill.WithLogger(slog.Default()),
	)
}

// closeEngine flushes pending state before the process exits.
func closeEngine(e *quill.Engine) {
	if err := e.Close(context.Background()); err != nil {
		slog.Default().Warn("flush on exit failed", "error", err)
	}
}
