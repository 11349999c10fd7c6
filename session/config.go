package session

import "time"

// DefaultTTL is how long an idle session survives before the registry
// evicts it. Zero disables eviction entirely.
const DefaultTTL = 30 * time.Minute

// Config holds registry initialization parameters.
type Config struct {
	// TTLMinutes evicts sessions idle for longer than this many minutes.
	// 0 uses the default; negative values disable eviction.
	TTLMinutes int `json:"ttl_minutes,omitempty"`
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{TTLMinutes: int(DefaultTTL / time.Minute)}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.TTLMinutes != 0 {
		c.TTLMinutes = source.TTLMinutes
	}
}

func (c *Config) ttl() time.Duration {
	if c.TTLMinutes == 0 {
		return DefaultTTL
	}
	if c.TTLMinutes < 0 {
		return 0
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}
