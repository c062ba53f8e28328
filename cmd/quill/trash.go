package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle a note's favorite flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		if err := engine.Records.ToggleFavorite(context.Background(), args[0]); err != nil {
			fatal("Failed to toggle favorite", err)
		}
		fmt.Printf("Toggled favorite on '%s'.\n", args[0])
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash <id>",
	Short: "Move a note to the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		if err := engine.Records.MoveToTrash(context.Background(), args[0]); err != nil {
			fatal("Failed to trash note", err)
		}
		fmt.Printf("Note '%s' moved to trash.\n", args[0])
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a note from the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		if err := engine.Records.RestoreFromTrash(context.Background(), args[0]); err != nil {
			fatal("Failed to restore note", err)
		}
		fmt.Printf("Note '%s' restored.\n", args[0])
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Permanently delete a note and its durable file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		if err := engine.Records.PermanentlyDelete(context.Background(), args[0]); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Note '%s' permanently deleted.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(rmCmd)
}
