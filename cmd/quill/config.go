package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quillkit/quill/pkg/core"
)

var (
	cfgTheme      string
	cfgAccent     string
	cfgFontSize   int
	cfgAutoSave   int
	cfgAIProvider string
	cfgAIBaseURL  string
	cfgAIKey      string
	cfgAIModel    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change app settings",
	Long: `Without flags, prints the current settings. With flags, applies the
given changes and writes them through immediately.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			fatal("Failed to initialize engine", err)
		}
		defer closeEngine(engine)

		ctx := context.Background()

		var cfg core.Config
		if !hasConfigChanges(cmd) {
			cfg, err = engine.Config.Get(ctx)
		} else {
			cfg, err = engine.Config.Update(ctx, func(c *core.Config) {
				if cmd.Flags().Changed("theme") {
					c.Theme = cfgTheme
				}
				if cmd.Flags().Changed("accent") {
					c.AccentColor = cfgAccent
				}
				if cmd.Flags().Changed("font-size") {
					c.Editor.FontSize = cfgFontSize
				}
				if cmd.Flags().Changed("autosave") {
					c.AutoSaveInterval = cfgAutoSave
				}
				if cmd.Flags().Changed("ai-provider") {
					c.AI.Provider = cfgAIProvider
				}
				if cmd.Flags().Changed("ai-base-url") {
					c.AI.BaseURL = cfgAIBaseURL
				}
				if cmd.Flags().Changed("ai-key") {
					c.AI.APIKey = cfgAIKey
				}
				if cmd.Flags().Changed("ai-model") {
					c.AI.Model = cfgAIModel
				}
			})
		}
		if err != nil {
			fatal("Failed to access config", err)
		}

		out, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			fatal("Failed to render config", err)
		}
		fmt.Print(string(out))
	},
}

func hasConfigChanges(cmd *cobra.Command) bool {
	for _, name := range []string{"theme", "accent", "font-size", "autosave", "ai-provider", "ai-base-url", "ai-key", "ai-model"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// redacted masks the API key for terminal output.
func redacted(cfg core.Config) core.Config {
	if cfg.AI.APIKey != "" {
		cfg.AI.APIKey = "********"
	}
	return cfg
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&cfgTheme, "theme", "", "UI theme (light, dark, system)")
	configCmd.Flags().StringVar(&cfgAccent, "accent", "", "Accent color")
	configCmd.Flags().IntVar(&cfgFontSize, "font-size", 0, "Editor font size")
	configCmd.Flags().IntVar(&cfgAutoSave, "autosave", 0, "Auto-save interval in milliseconds")
	configCmd.Flags().StringVar(&cfgAIProvider, "ai-provider", "", "AI provider name")
	configCmd.Flags().StringVar(&cfgAIBaseURL, "ai-base-url", "", "AI provider base URL")
	configCmd.Flags().StringVar(&cfgAIKey, "ai-key", "", "AI provider API key")
	configCmd.Flags().StringVar(&cfgAIModel, "ai-model", "", "AI model identifier")
}
