package models

import "testing"

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.7, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEmotionProfileClamp(t *testing.T) {
	p := EmotionProfile{Intensity: 1.4, EnergyLevel: -0.2, EnthusiasmScore: 0.6}
	p.Clamp()
	if p.Intensity != 1 || p.EnergyLevel != 0 || p.EnthusiasmScore != 0.6 {
		t.Errorf("Clamp result = %+v", p)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"hello", 1},
		{"I want to write a mystery novel", 7},
		{"  spaced   out   words  ", 3},
	}
	for _, tt := range tests {
		v := &VoiceInput{Text: tt.text}
		if got := v.WordCount(); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestDefaultVoiceCharacteristics(t *testing.T) {
	vc := DefaultVoiceCharacteristics()
	if vc.Tone != "neutral" || vc.Pace != 1.0 {
		t.Errorf("Defaults = %+v", vc)
	}
	if vc.ClarityScore != 0.8 || vc.ConfidenceLevel != 0.7 {
		t.Errorf("Defaults = %+v", vc)
	}
}

func TestAllIntents_Stable(t *testing.T) {
	a, b := AllIntents(), AllIntents()
	if len(a) != 10 {
		t.Fatalf("AllIntents length = %d, want 10", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("AllIntents order unstable at %d: %s vs %s", i, a[i], b[i])
		}
	}
}
