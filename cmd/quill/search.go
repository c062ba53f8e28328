package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search note titles (case-insensitive substring)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		for _, rec := range engine.Records.Search(args[0]) {
			fmt.Printf("%s  %s\n", rec.ID, rec.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
