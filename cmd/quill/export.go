package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportOut string

// exportedNote is the YAML projection of a record for external tools.
type exportedNote struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	UpdatedAt time.Time `yaml:"updated_at"`
	Favorite  bool      `yaml:"favorite,omitempty"`
	Content   any       `yaml:"content,omitempty"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all active notes as YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		var out []exportedNote
		for _, rec := range engine.Records.ListActive() {
			// Lists are content-less; fetch the full record for export.
			full, ok := engine.Records.Load(rec.ID)
			if !ok {
				continue
			}

			n := exportedNote{
				ID:        full.ID,
				Title:     full.Title,
				UpdatedAt: time.UnixMilli(full.UpdatedAt).UTC(),
				Favorite:  full.IsFavorite,
			}
			if len(full.Content) > 0 {
				var payload any
				if err := json.Unmarshal(full.Content, &payload); err == nil {
					n.Content = payload
				}
			}
			out = append(out, n)
		}

		data, err := yaml.Marshal(out)
		if err != nil {
			fatal("Failed to serialize export", err)
		}

		if exportOut == "" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			fatal("Failed to write export file", err)
		}
		fmt.Printf("Exported %d notes to %s.\n", len(out), exportOut)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to a file instead of stdout")
}
