package speech

import "time"

// Primary provider defaults, matching the Murf voice tuning for the persona.
const (
	DefaultMurfBaseURL    = "https://api.murf.ai"
	DefaultVoiceID        = "Ronnie"
	DefaultStyle          = "Conversational"
	DefaultModelVersion   = "GEN2"
	DefaultLocale         = "ml-IN"
	DefaultRate           = 20
	DefaultPitch          = 0
	DefaultSampleRate     = 48000
	DefaultFormat         = "MP3"
	DefaultChannelType    = "MONO"
	DefaultTimeout        = 30 * time.Second
	DefaultRequestsPerSec = 2.0
	DefaultBurst          = 4
)

// Fallback engine defaults: the local edge-tts command line, fixed voice,
// +15% speaking rate.
const (
	DefaultFallbackCommand = "edge-tts"
	DefaultFallbackVoice   = "en-US-ChristopherNeural"
	DefaultFallbackRate    = "+15%"
)

// Config holds synthesizer initialization parameters. APIKey is not read
// from config files; the composition root injects it from the environment.
// An empty APIKey disables the primary provider and every call goes straight
// to the fallback engine.
type Config struct {
	APIKey          string  `json:"-"`
	BaseURL         string  `json:"base_url,omitempty"`
	VoiceID         string  `json:"voice_id,omitempty"`
	Style           string  `json:"style,omitempty"`
	Locale          string  `json:"locale,omitempty"`
	TimeoutSeconds  int     `json:"timeout_seconds,omitempty"`
	RequestsPerSec  float64 `json:"requests_per_sec,omitempty"`
	Burst           int     `json:"burst,omitempty"`
	FallbackCommand string  `json:"fallback_command,omitempty"`
	FallbackVoice   string  `json:"fallback_voice,omitempty"`
	FallbackRate    string  `json:"fallback_rate,omitempty"`
}

// DefaultConfig returns the default synthesizer configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultMurfBaseURL,
		VoiceID:         DefaultVoiceID,
		Style:           DefaultStyle,
		Locale:          DefaultLocale,
		TimeoutSeconds:  int(DefaultTimeout / time.Second),
		RequestsPerSec:  DefaultRequestsPerSec,
		Burst:           DefaultBurst,
		FallbackCommand: DefaultFallbackCommand,
		FallbackVoice:   DefaultFallbackVoice,
		FallbackRate:    DefaultFallbackRate,
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
	if source.VoiceID != "" {
		c.VoiceID = source.VoiceID
	}
	if source.Style != "" {
		c.Style = source.Style
	}
	if source.Locale != "" {
		c.Locale = source.Locale
	}
	if source.TimeoutSeconds != 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
	if source.RequestsPerSec != 0 {
		c.RequestsPerSec = source.RequestsPerSec
	}
	if source.Burst != 0 {
		c.Burst = source.Burst
	}
	if source.FallbackCommand != "" {
		c.FallbackCommand = source.FallbackCommand
	}
	if source.FallbackVoice != "" {
		c.FallbackVoice = source.FallbackVoice
	}
	if source.FallbackRate != "" {
		c.FallbackRate = source.FallbackRate
	}
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
