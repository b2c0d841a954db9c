package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks.
type GeminiModels struct {
	// Dialogue is for live prospect replies (needs to be fast)
	Dialogue string `json:"dialogue"`

	// Scoring is for post-call category/phase grading (quality over speed)
	Scoring string `json:"scoring"`

	// Reconstruction is for transcript-only difficulty estimation
	Reconstruction string `json:"reconstruction"`
}

// AIConfig holds all AI-related configuration.
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Dialogue:       getEnvOrDefault("GEMINI_MODEL_DIALOGUE", "gemini-2.5-flash-preview-05-20"),
			Scoring:        getEnvOrDefault("GEMINI_MODEL_SCORING", "gemini-2.0-flash"),
			Reconstruction: getEnvOrDefault("GEMINI_MODEL_RECON", "gemini-2.0-flash"),
		},
		TimeoutMS: 15000,
	}
}

// IsEnabled returns true if the AI API is configured.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model.
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
