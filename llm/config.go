package llm

import "time"

// Default client parameters, matching the interview persona tuning.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.6
	DefaultTimeout     = 60 * time.Second
)

// Config holds chat client initialization parameters. APIKey is not read
// from config files; the composition root injects it from the environment.
type Config struct {
	APIKey         string  `json:"-"`
	BaseURL        string  `json:"base_url,omitempty"`
	Model          string  `json:"model,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"`
}

// DefaultConfig returns the default chat client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Model:          DefaultModel,
		Temperature:    DefaultTemperature,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Temperature != 0 {
		c.Temperature = source.Temperature
	}
	if source.TimeoutSeconds != 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
