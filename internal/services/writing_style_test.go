package services

import (
	"strings"
	"testing"

	"vibecode/internal/heuristics"
)

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"table", 1}, // silent-e discount
		{"beautiful", 3},
		{"eternity", 4},
		{"rhythm", 1},
		{"whisper", 2},
		{"I", 1},
		{"", 1},
	}
	for _, tt := range tests {
		if got := countSyllables(tt.word); got != tt.want {
			t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestEstimateComplexity(t *testing.T) {
	simple := estimateComplexity("The cat sat. It was warm.")
	complex := estimateComplexity(
		"The protagonist's inexorable deterioration throughout the penultimate chapter " +
			"demonstrates extraordinary psychological verisimilitude notwithstanding considerable " +
			"structural irregularities pervading the narrative architecture")

	if simple >= complex {
		t.Errorf("Simple text complexity %.2f not below complex %.2f", simple, complex)
	}
	for _, v := range []float64{simple, complex} {
		if v < 0 || v > 1 {
			t.Errorf("Complexity %v out of [0,1]", v)
		}
	}

	// Empty text falls back to the midpoint.
	if got := estimateComplexity(""); got != 0.5 {
		t.Errorf("Empty complexity = %v, want 0.5", got)
	}
}

func TestAnalyzeVoiceInput_Tone(t *testing.T) {
	a := NewWritingStyleAnalyzer(heuristics.NewRegistry())

	obs := a.AnalyzeVoiceInput("this is amazing, I love it, so exciting and incredible")
	if obs.Tone != "energetic" {
		t.Errorf("Tone = %s, want energetic", obs.Tone)
	}
	if obs.ToneConfidence <= 0.5 {
		t.Errorf("ToneConfidence = %.2f, want above 0.5 for strong evidence", obs.ToneConfidence)
	}

	weak := a.AnalyzeVoiceInput("continue the chapter from yesterday")
	if weak.Tone != "neutral" || weak.ToneConfidence != 0 {
		t.Errorf("No-evidence observation = %+v, want neutral/0", weak)
	}
}

func TestAnalyzeVoiceInput_CreativeMarkers(t *testing.T) {
	a := NewWritingStyleAnalyzer(heuristics.NewRegistry())

	obs := a.AnalyzeVoiceInput("a whisper at midnight, the ancient house with its velvet dread")
	if len(obs.CreativeMarkers) == 0 {
		t.Fatal("Expected creative markers, got none")
	}
	for _, m := range obs.CreativeMarkers {
		if !strings.Contains(m, ":") {
			t.Errorf("Marker %q missing category prefix", m)
		}
	}
}

func TestAnalyzeVoiceInput_MarkersCapped(t *testing.T) {
	a := NewWritingStyleAnalyzer(heuristics.NewRegistry())

	obs := a.AnalyzeVoiceInput(
		"glittering whisper fragrant velvet bitter glow longing grief joy dread hope " +
			"midnight dawn winter crumbling vast narrow ancient chase escape discover")
	if len(obs.CreativeMarkers) != maxCreativeMarkers {
		t.Errorf("Markers = %d, want capped at %d", len(obs.CreativeMarkers), maxCreativeMarkers)
	}
}
