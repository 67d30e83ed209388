// Package transcription is the speech-to-text boundary. It talks to any
// Whisper-compatible API (Groq primary, OpenAI fallback) and augments the
// transcript with the audio analysis signals the voice pipeline consumes.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// AudioAnalysis carries the paralinguistic signals derived from an utterance.
type AudioAnalysis struct {
	Duration          float64 `json:"duration"` // seconds
	PitchMean         float64 `json:"pitch_mean"`
	PitchVariance     float64 `json:"pitch_variance"`
	Energy            float64 `json:"energy"`
	SignalToNoise     float64 `json:"signal_to_noise_ratio"`
	ArticulationScore float64 `json:"articulation_score"`
	VolumeConsistency float64 `json:"volume_consistency"`
	PauseFrequency    float64 `json:"pause_frequency"` // pauses per minute
	FillerWordRatio   float64 `json:"filler_word_ratio"`
	EmphasisPoints    []int   `json:"emphasis_points,omitempty"`
	SpeechStability   float64 `json:"speech_stability"`
	AverageVolume     float64 `json:"average_volume"`
}

// DefaultAnalysis is the neutral analysis used when nothing can be measured.
func DefaultAnalysis() AudioAnalysis {
	return AudioAnalysis{
		Energy:            0.5,
		SignalToNoise:     0.7,
		ArticulationScore: 0.7,
		VolumeConsistency: 0.7,
		SpeechStability:   0.7,
		AverageVolume:     0.5,
	}
}

// Result is the output of one transcription call.
type Result struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"` // 0.0-1.0
	Language   string        `json:"language,omitempty"`
	Provider   string        `json:"provider,omitempty"`
	Analysis   AudioAnalysis `json:"audio_analysis"`
}

// Transcriber converts recorded audio into a transcript with analysis.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, language string) (*Result, error)
}

// ProviderConfig identifies one Whisper-compatible endpoint.
type ProviderConfig struct {
	Name    string
	BaseURL string
	Model   string
	APIKey  string
}

// Client calls Whisper-compatible APIs, trying Groq first (cheaper) and
// falling back to OpenAI. Outbound calls are rate limited.
type Client struct {
	httpClient *http.Client
	providers  []ProviderConfig
	limiter    *rate.Limiter
}

// NewClient creates a transcription client. Providers with empty API keys are
// skipped at call time, so a deployment may configure only one of them.
func NewClient(groqKey, openaiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Whisper can take a while for long audio
		},
		providers: []ProviderConfig{
			{Name: "Groq", BaseURL: "https://api.groq.com/openai/v1", Model: "whisper-large-v3", APIKey: groqKey},
			{Name: "OpenAI", BaseURL: "https://api.openai.com/v1", Model: "whisper-1", APIKey: openaiKey},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4), // 2 req/s sustained
	}
}

// NewClientWithProviders creates a client with an explicit provider chain.
// Used by tests to point at a local server.
func NewClientWithProviders(providers []ProviderConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		providers:  providers,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

type whisperSegment struct {
	Text         string  `json:"text"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	AvgLogprob   float64 `json:"avg_logprob"`
	NoSpeechProb float64 `json:"no_speech_prob"`
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Segments []whisperSegment `json:"segments"`
}

// Transcribe sends the audio file to the first healthy provider and derives
// the audio analysis from the verbose response.
func (c *Client) Transcribe(ctx context.Context, audioPath string, language string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("transcription rate limit wait: %w", err)
	}

	var lastErr error
	for _, p := range c.providers {
		if p.APIKey == "" {
			continue
		}
		log.Printf("🎵 [TRANSCRIPTION] Using %s Whisper (%s)", p.Name, p.Model)
		resp, err := c.transcribeWith(ctx, p, audioPath, language)
		if err == nil {
			return resp, nil
		}
		log.Printf("⚠️  [TRANSCRIPTION] %s failed: %v", p.Name, err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no transcription provider configured")
	}
	return nil, lastErr
}

func (c *Client) transcribeWith(ctx context.Context, p ProviderConfig, audioPath, language string) (*Result, error) {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer audioFile.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("failed to copy audio data: %w", err)
	}

	if err := writer.WriteField("model", p.Model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("failed to write response_format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("%s Whisper API error: %s", p.Name, errorResp.Error.Message)
		}
		return nil, fmt.Errorf("%s Whisper API error: %d", p.Name, resp.StatusCode)
	}

	var apiResp whisperResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	result := &Result{
		Text:       strings.TrimSpace(apiResp.Text),
		Confidence: confidenceFromSegments(apiResp.Segments),
		Language:   apiResp.Language,
		Provider:   p.Name,
		Analysis:   analysisFromResponse(&apiResp),
	}

	log.Printf("✅ [TRANSCRIPTION] %s transcription successful (%d chars, %.1fs, confidence %.2f)",
		p.Name, len(result.Text), apiResp.Duration, result.Confidence)
	return result, nil
}

// confidenceFromSegments maps mean segment avg_logprob onto [0,1]. Whisper
// logprobs near 0 indicate near-certain tokens; -1 and below is garbage.
func confidenceFromSegments(segments []whisperSegment) float64 {
	if len(segments) == 0 {
		return 0.8
	}
	var sum float64
	for _, s := range segments {
		sum += s.AvgLogprob
	}
	mean := sum / float64(len(segments))
	conf := 1.0 + mean // avg_logprob is <= 0
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// analysisFromResponse derives pause, stability and articulation signals from
// segment timing. Pitch and volume cannot be measured server-side from the
// Whisper response, so those fields stay at neutral defaults.
func analysisFromResponse(resp *whisperResponse) AudioAnalysis {
	analysis := DefaultAnalysis()
	analysis.Duration = resp.Duration

	if len(resp.Segments) == 0 || resp.Duration <= 0 {
		return analysis
	}

	var spoken float64
	pauses := 0
	prevEnd := 0.0
	var noSpeechSum float64
	for _, s := range resp.Segments {
		spoken += s.End - s.Start
		if s.Start-prevEnd > 0.5 {
			pauses++
		}
		prevEnd = s.End
		noSpeechSum += s.NoSpeechProb
	}

	analysis.PauseFrequency = float64(pauses) / (resp.Duration / 60.0)
	analysis.SignalToNoise = 1.0 - noSpeechSum/float64(len(resp.Segments))

	// Articulation: ratio of spoken time to elapsed time, soft-capped.
	analysis.ArticulationScore = math.Min(1.0, spoken/resp.Duration+0.2)

	// Stability: even segment lengths mean steady delivery.
	meanLen := spoken / float64(len(resp.Segments))
	var variance float64
	for _, s := range resp.Segments {
		d := (s.End - s.Start) - meanLen
		variance += d * d
	}
	variance /= float64(len(resp.Segments))
	analysis.SpeechStability = math.Max(0, 1.0-math.Sqrt(variance)/(meanLen+0.001)*0.5)

	return analysis
}

// SupportedFormats lists the audio formats accepted for transcription.
func SupportedFormats() []string {
	return []string{"mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm", "ogg", "flac"}
}

// IsSupportedFormat checks if a MIME type can be transcribed.
func IsSupportedFormat(mimeType string) bool {
	supported := map[string]bool{
		"audio/mpeg": true, "audio/mp3": true, "audio/mp4": true,
		"audio/x-m4a": true, "audio/wav": true, "audio/x-wav": true,
		"audio/wave": true, "audio/webm": true, "audio/ogg": true,
		"audio/flac": true,
	}
	return supported[mimeType]
}
