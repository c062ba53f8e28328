package core

// EditorConfig holds editor rendering preferences.
type EditorConfig struct {
	FontSize   int     `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
	Spellcheck bool    `json:"spellcheck"`
}

// AIConfig holds the AI provider settings. Only storage is in scope here;
// no network calls are ever made by this subsystem.
type AIConfig struct {
	Provider string `json:"provider"`
	BaseURL  string `json:"baseUrl"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

// Config is the app settings singleton persisted by the config store.
type Config struct {
	Theme            string       `json:"theme"`
	AccentColor      string       `json:"accentColor,omitempty"`
	Editor           EditorConfig `json:"editor"`
	AutoSaveInterval int          `json:"autoSaveInterval"`
	AI               AIConfig     `json:"ai"`
}

// DefaultConfig returns the settings written on first read when no config
// file exists, and the fallback when an existing file fails to parse.
func DefaultConfig() Config {
	return Config{
		Theme: "system",
		Editor: EditorConfig{
			FontSize:   16,
			LineHeight: 1.6,
			Spellcheck: true,
		},
		AutoSaveInterval: 2000,
		AI: AIConfig{
			Provider: "openai",
			BaseURL:  "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
		},
	}
}
