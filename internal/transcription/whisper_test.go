package transcription

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(path, []byte("fake audio payload"), 0o644); err != nil {
		t.Fatalf("Failed to write audio fixture: %v", err)
	}
	return path
}

func TestTranscribe_Success(t *testing.T) {
	var gotAuth, gotModel, gotFormat, gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm failed: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotLanguage = r.FormValue("language")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("Missing file part: %v", err)
		}

		json.NewEncoder(w).Encode(whisperResponse{
			Text:     "  I want to write a mystery novel  ",
			Language: "en",
			Duration: 4.0,
			Segments: []whisperSegment{
				{Text: "I want to write", Start: 0, End: 2, AvgLogprob: -0.2, NoSpeechProb: 0.1},
				{Text: "a mystery novel", Start: 2, End: 4, AvgLogprob: -0.4, NoSpeechProb: 0.1},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithProviders([]ProviderConfig{
		{Name: "Local", BaseURL: server.URL, Model: "whisper-large-v3", APIKey: "test-key"},
	})

	result, err := client.Transcribe(context.Background(), tempAudioFile(t), "en")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if result.Text != "I want to write a mystery novel" {
		t.Errorf("Text = %q, want trimmed transcript", result.Text)
	}
	if result.Language != "en" || result.Provider != "Local" {
		t.Errorf("Language/Provider = %s/%s, want en/Local", result.Language, result.Provider)
	}
	// Mean avg_logprob is -0.3, mapped to 0.7.
	if math.Abs(result.Confidence-0.7) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.7", result.Confidence)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotModel != "whisper-large-v3" || gotFormat != "verbose_json" || gotLanguage != "en" {
		t.Errorf("Form fields = %s/%s/%s, want whisper-large-v3/verbose_json/en",
			gotModel, gotFormat, gotLanguage)
	}
}

func TestTranscribe_ProviderFallback(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"over capacity"}}`))
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(whisperResponse{Text: "hello there", Language: "en"})
	}))
	defer working.Close()

	client := NewClientWithProviders([]ProviderConfig{
		{Name: "Primary", BaseURL: failing.URL, Model: "whisper-large-v3", APIKey: "key-a"},
		{Name: "Fallback", BaseURL: working.URL, Model: "whisper-1", APIKey: "key-b"},
	})

	result, err := client.Transcribe(context.Background(), tempAudioFile(t), "")
	if err != nil {
		t.Fatalf("Transcribe failed despite fallback provider: %v", err)
	}
	if result.Provider != "Fallback" {
		t.Errorf("Provider = %s, want Fallback", result.Provider)
	}
	if result.Text != "hello there" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestTranscribe_NoProviders(t *testing.T) {
	client := NewClient("", "")

	_, err := client.Transcribe(context.Background(), tempAudioFile(t), "")
	if err == nil {
		t.Fatal("Expected error with no configured providers")
	}
	if !strings.Contains(err.Error(), "no transcription provider") {
		t.Errorf("Error = %v", err)
	}
}

func TestTranscribe_AllProvidersFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer failing.Close()

	client := NewClientWithProviders([]ProviderConfig{
		{Name: "Only", BaseURL: failing.URL, Model: "whisper-1", APIKey: "bad-key"},
	})

	_, err := client.Transcribe(context.Background(), tempAudioFile(t), "")
	if err == nil {
		t.Fatal("Expected error when every provider fails")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("Error should carry the provider message, got %v", err)
	}
}

func TestConfidenceFromSegments(t *testing.T) {
	tests := []struct {
		name     string
		logprobs []float64
		want     float64
	}{
		{"no segments", nil, 0.8},
		{"near certain", []float64{-0.05}, 0.95},
		{"garbage floor", []float64{-1.5}, 0},
		{"perfect cap", []float64{0}, 1.0},
		{"mixed", []float64{-0.2, -0.4}, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var segments []whisperSegment
			for _, lp := range tt.logprobs {
				segments = append(segments, whisperSegment{AvgLogprob: lp})
			}
			if got := confidenceFromSegments(segments); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("confidenceFromSegments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalysisFromResponse(t *testing.T) {
	resp := &whisperResponse{
		Duration: 6.0,
		Segments: []whisperSegment{
			{Start: 0, End: 2, NoSpeechProb: 0.1},
			{Start: 3, End: 5, NoSpeechProb: 0.1}, // 1s gap counts as a pause
		},
	}

	analysis := analysisFromResponse(resp)

	if analysis.Duration != 6.0 {
		t.Errorf("Duration = %v, want 6.0", analysis.Duration)
	}
	// One pause over six seconds is ten per minute.
	if math.Abs(analysis.PauseFrequency-10.0) > 1e-9 {
		t.Errorf("PauseFrequency = %v, want 10.0", analysis.PauseFrequency)
	}
	if math.Abs(analysis.SignalToNoise-0.9) > 1e-9 {
		t.Errorf("SignalToNoise = %v, want 0.9", analysis.SignalToNoise)
	}
	if math.Abs(analysis.ArticulationScore-(4.0/6.0+0.2)) > 1e-9 {
		t.Errorf("ArticulationScore = %v", analysis.ArticulationScore)
	}
	// Equal segment lengths mean perfectly steady delivery.
	if analysis.SpeechStability != 1.0 {
		t.Errorf("SpeechStability = %v, want 1.0", analysis.SpeechStability)
	}
}

func TestAnalysisFromResponse_NoSegments(t *testing.T) {
	analysis := analysisFromResponse(&whisperResponse{Duration: 3.5})

	want := DefaultAnalysis()
	want.Duration = 3.5
	if !reflect.DeepEqual(analysis, want) {
		t.Errorf("Analysis = %+v, want neutral defaults with duration", analysis)
	}
}

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"audio/webm", true},
		{"audio/mpeg", true},
		{"audio/wav", true},
		{"audio/flac", true},
		{"video/mp4", false},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSupportedFormat(tt.mime); got != tt.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}
