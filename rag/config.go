package rag

import "time"

// DefaultTopK is the number of fragments retrieved per query.
const DefaultTopK = 2

// Config holds knowledge index initialization parameters. An empty
// CorpusPath disables retrieval entirely.
type Config struct {
	CorpusPath          string `json:"corpus_path,omitempty"`
	FragmentSize        int    `json:"fragment_size,omitempty"`
	TopK                int    `json:"top_k,omitempty"`
	EmbedBaseURL        string `json:"embed_base_url,omitempty"`
	EmbedModel          string `json:"embed_model,omitempty"`
	EmbedTimeoutSeconds int    `json:"embed_timeout_seconds,omitempty"`
}

// DefaultConfig returns the default knowledge index configuration.
func DefaultConfig() Config {
	return Config{
		CorpusPath:          "slang_knowledge_base.txt",
		FragmentSize:        DefaultFragmentSize,
		TopK:                DefaultTopK,
		EmbedBaseURL:        DefaultEmbedBaseURL,
		EmbedModel:          DefaultEmbedModel,
		EmbedTimeoutSeconds: int(DefaultEmbedTimeout / time.Second),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.CorpusPath != "" {
		c.CorpusPath = source.CorpusPath
	}
	if source.FragmentSize != 0 {
		c.FragmentSize = source.FragmentSize
	}
	if source.TopK != 0 {
		c.TopK = source.TopK
	}
	if source.EmbedBaseURL != "" {
		c.EmbedBaseURL = source.EmbedBaseURL
	}
	if source.EmbedModel != "" {
		c.EmbedModel = source.EmbedModel
	}
	if source.EmbedTimeoutSeconds != 0 {
		c.EmbedTimeoutSeconds = source.EmbedTimeoutSeconds
	}
}

func (c *Config) embedTimeout() time.Duration {
	if c.EmbedTimeoutSeconds <= 0 {
		return DefaultEmbedTimeout
	}
	return time.Duration(c.EmbedTimeoutSeconds) * time.Second
}
