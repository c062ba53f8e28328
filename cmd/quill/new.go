package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new note",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := "Untitled"
		if len(args) > 0 {
			title = args[0]
		}

		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		id, err := engine.Records.Create(context.Background(), title)
		if err != nil {
			fatal("Failed to create note", err)
		}

		fmt.Println(id)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
