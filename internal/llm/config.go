// Package llm provides Aura's LLM client: a thin, cached, schema-guided
// completion interface used both for plain generative literals and for
// generative casts.
package llm

import "time"

// Configuration mirrors the fields an Aura script (or its host) can set:
// base_uri, model, temperature, max_tokens, top_p, frequency_penalty,
// presence_penalty, and testing (which forces a canned response instead
// of a network call).
type Configuration struct {
	BaseURI          string
	Model            string
	APIKey           string
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	Testing          bool

	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfiguration mirrors the teacher's provider defaults, adapted
// to Aura's single-provider-per-run model.
func DefaultConfiguration() Configuration {
	return Configuration{
		BaseURI:    "https://api.anthropic.com/v1/messages",
		Model:      "claude-3-5-sonnet-20241022",
		MaxTokens:  4096,
		Timeout:    60 * time.Second,
		MaxRetries: 3,
	}
}
