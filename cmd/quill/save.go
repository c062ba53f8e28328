package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillkit/quill/pkg/records"
)

var saveTitle string

var saveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Save a note's content from stdin",
	Long: `Reads a JSON content payload from stdin and upserts the note.
The payload is stored opaquely; it is never interpreted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("Failed to read stdin", err)
		}
		if len(payload) > 0 && !json.Valid(payload) {
			// Wrap plain text so the durable file stays valid JSON.
			wrapped, _ := json.Marshal(string(payload))
			payload = wrapped
		}

		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		req := records.SaveRequest{ID: args[0], Content: payload}
		if cmd.Flags().Changed("title") {
			req.Title = &saveTitle
		}

		if err := engine.Records.Save(context.Background(), req); err != nil {
			fatal("Failed to save note", err)
		}

		fmt.Printf("Note '%s' saved.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "Set the note title")
}
