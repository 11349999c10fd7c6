package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// MurfProvider renders speech through the Murf REST API. A successful
// generate call returns a URL to the rendered audio, which is fetched for
// the raw bytes. Calls pass through a token-bucket rate limiter so bursts of
// turns cannot trip provider quotas.
type MurfProvider struct {
	apiKey     string
	baseURL    string
	voiceID    string
	style      string
	locale     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewMurfProvider creates a provider from configuration. The caller is
// responsible for checking that an API key is present before routing calls
// here.
func NewMurfProvider(cfg *Config) *MurfProvider {
	p := &MurfProvider{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		voiceID:    cfg.VoiceID,
		style:      cfg.Style,
		locale:     cfg.Locale,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
	}
	if p.baseURL == "" {
		p.baseURL = DefaultMurfBaseURL
	}
	if p.limiter.Limit() <= 0 {
		p.limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSec), DefaultBurst)
	}
	return p
}

func (p *MurfProvider) Name() string { return "murf" }

type generateRequest struct {
	VoiceID           string `json:"voiceId"`
	Style             string `json:"style"`
	ModelVersion      string `json:"modelVersion"`
	MultiNativeLocale string `json:"multiNativeLocale"`
	Text              string `json:"text"`
	Rate              int    `json:"rate"`
	Pitch             int    `json:"pitch"`
	SampleRate        int    `json:"sampleRate"`
	Format            string `json:"format"`
	ChannelType       string `json:"channelType"`
}

type generateResponse struct {
	AudioFile string `json:"audioFile"`
}

// Synthesize renders text to MP3 bytes via the generate-then-fetch flow.
func (p *MurfProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, fmt.Errorf("speech: murf api key is not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("speech: rate limiter: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		VoiceID:           p.voiceID,
		Style:             p.style,
		ModelVersion:      DefaultModelVersion,
		MultiNativeLocale: p.locale,
		Text:              text,
		Rate:              DefaultRate,
		Pitch:             DefaultPitch,
		SampleRate:        DefaultSampleRate,
		Format:            DefaultFormat,
		ChannelType:       DefaultChannelType,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/speech/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speech: create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: send generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speech: murf returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("speech: decode generate response: %w", err)
	}
	if parsed.AudioFile == "" {
		return nil, fmt.Errorf("speech: generate response has no audioFile")
	}

	return p.fetchAudio(ctx, parsed.AudioFile)
}

func (p *MurfProvider) fetchAudio(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("speech: create audio fetch request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech: audio fetch returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read audio body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: audio fetch returned an empty body")
	}
	return audio, nil
}
