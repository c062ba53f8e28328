package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillkit/quill/pkg/core"
)

var (
	listJSON      bool
	listFavorites bool
	listTrash     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes (active by default)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		var recs []core.Record
		switch {
		case listTrash:
			recs = engine.Records.ListTrash()
		case listFavorites:
			recs = engine.Records.ListFavorites()
		default:
			recs = engine.Records.ListActive()
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(recs); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, rec := range recs {
			ts := rec.UpdatedAt
			if listTrash && rec.DeletedAt != nil {
				ts = *rec.DeletedAt
			}
			when := time.UnixMilli(ts).Format("2006-01-02 15:04")
			marker := " "
			if rec.IsFavorite {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, rec.ID, when, rec.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only favorite notes")
	listCmd.Flags().BoolVar(&listTrash, "trash", false, "Trashed notes instead of active ones")
}
