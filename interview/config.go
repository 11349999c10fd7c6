package interview

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhimanyu-1/Shibu-App/llm"
	"github.com/abhimanyu-1/Shibu-App/rag"
	"github.com/abhimanyu-1/Shibu-App/session"
	"github.com/abhimanyu-1/Shibu-App/speech"
)

// DefaultQuestionLimit is the number of question/answer exchanges before the
// closing review.
const DefaultQuestionLimit = 5

// Config holds initialization parameters for all interview subsystems. Each
// subsystem section delegates to that subsystem's config-driven constructor.
// API keys never come from the file; the composition root injects them from
// the environment.
type Config struct {
	QuestionLimit int            `json:"question_limit,omitempty"`
	LLM           llm.Config     `json:"llm"`
	Session       session.Config `json:"session"`
	RAG           rag.Config     `json:"rag"`
	Speech        speech.Config  `json:"speech"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		QuestionLimit: DefaultQuestionLimit,
		LLM:           llm.DefaultConfig(),
		Session:       session.DefaultConfig(),
		RAG:           rag.DefaultConfig(),
		Speech:        speech.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	if source.QuestionLimit > 0 {
		c.QuestionLimit = source.QuestionLimit
	}
	c.LLM.Merge(&source.LLM)
	c.Session.Merge(&source.Session)
	c.RAG.Merge(&source.RAG)
	c.Speech.Merge(&source.Speech)
}

// LoadConfig reads a JSON config file and merges it over defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
