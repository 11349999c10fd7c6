package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// LocalEngine renders speech by invoking an offline TTS command (edge-tts by
// default) that writes MP3 to a file. The temp file is removed
// unconditionally, including on early error returns.
type LocalEngine struct {
	command string
	voice   string
	rate    string
}

// NewLocalEngine creates the fallback engine from configuration.
func NewLocalEngine(cfg *Config) *LocalEngine {
	e := &LocalEngine{
		command: cfg.FallbackCommand,
		voice:   cfg.FallbackVoice,
		rate:    cfg.FallbackRate,
	}
	if e.command == "" {
		e.command = DefaultFallbackCommand
	}
	if e.voice == "" {
		e.voice = DefaultFallbackVoice
	}
	if e.rate == "" {
		e.rate = DefaultFallbackRate
	}
	return e
}

func (e *LocalEngine) Name() string { return "local" }

// Synthesize renders text to MP3 bytes through the local engine.
func (e *LocalEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "shibu-tts-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("speech: create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, e.command,
		"--voice", e.voice,
		"--rate="+e.rate,
		"--text", text,
		"--write-media", path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("speech: %s failed: %w: %s", e.command, err, out)
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("speech: read rendered audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: %s produced no audio", e.command)
	}
	return audio, nil
}
