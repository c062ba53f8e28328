package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Print a note's content payload",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		// Cache first, durable tier as explicit fallback.
		rec, ok := engine.Records.Load(args[0])
		if !ok {
			rec, err = engine.Records.Recover(context.Background(), args[0])
			if err != nil {
				fatal("Note not found", err)
			}
		}

		fmt.Printf("# %s\n", rec.Title)
		if len(rec.Content) > 0 {
			os.Stdout.Write(rec.Content)
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
