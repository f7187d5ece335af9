// Package llm provides centralized LLM configuration and client abstractions
// for brief generation and selection rewriting.
package llm

// ModelTier represents the capability level required for a task.
type ModelTier string

const (
	// TierLite is for cheap tasks: coverage summaries, keyword extraction.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: outline generation.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for nuanced prose work: selection rewriting.
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider.
type Provider string

// Supported providers. Only Gemini is implemented today.
const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the model configuration for the application.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with the model for one tier replaced.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	updated := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		updated.Models[k] = v
	}
	updated.Models[tier] = model
	return updated
}
