package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the record directory for out-of-band changes",
	Long: `Observes the per-record files on disk and prints an event whenever one
is created, modified, or deleted outside this process. Changed records
are refreshed in the cache before the event is printed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := engine.Watch(ctx)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Println("Watching for record changes. Ctrl-C to stop.")
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				fmt.Printf("%s %s\n", ev.Type, ev.ID)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
