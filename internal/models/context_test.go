package models

import (
	"math"
	"testing"
)

func TestWeightsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ContextSynthesisWeights
	}{
		{"already normalized", ContextSynthesisWeights{0.4, 0.2, 0.3, 0.1}},
		{"needs scaling", ContextSynthesisWeights{0.48, 0.2, 0.3, 0.1}},
		{"large values", ContextSynthesisWeights{4, 2, 3, 1}},
		{"tiny values", ContextSynthesisWeights{0.0001, 0.0002, 0.0003, 0.0004}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.in
			w.Normalize()
			if diff := math.Abs(w.Sum() - 1.0); diff > 1e-9 {
				t.Errorf("Sum after Normalize = %v, want 1.0", w.Sum())
			}
		})
	}
}

func TestWeightsNormalize_Degenerate(t *testing.T) {
	w := ContextSynthesisWeights{}
	w.Normalize()
	if w != DefaultSynthesisWeights() {
		t.Errorf("Degenerate weights = %+v, want default", w)
	}

	w = ContextSynthesisWeights{AuthorWeight: -1, MarketWeight: 0.5}
	w.Normalize()
	if w != DefaultSynthesisWeights() {
		t.Errorf("Non-positive sum = %+v, want default", w)
	}
}

func TestDefaultSynthesisWeightsSum(t *testing.T) {
	if diff := math.Abs(DefaultSynthesisWeights().Sum() - 1.0); diff > 1e-9 {
		t.Errorf("Default weights sum = %v, want 1.0", DefaultSynthesisWeights().Sum())
	}
}

func TestGetPrimaryContextSummary_Caps(t *testing.T) {
	sc := &SynthesizedContext{
		Author: &AuthorContext{
			CurrentMood: MoodEnergetic,
			WritingStyle: WritingStyleProfile{
				Tone:             "energetic",
				GenrePreferences: []string{"mystery", "thriller"},
			},
		},
		Market: MarketContext{
			TrendingCategories: []string{"a", "b", "c", "d", "e"},
		},
		Creative: CreativeContext{
			Patterns: []CreativePattern{
				{Name: "p1"}, {Name: "p2"}, {Name: "p3"}, {Name: "p4"},
			},
		},
		QualityScore: 0.8,
	}

	summary := sc.GetPrimaryContextSummary()
	if len(summary.MarketTrends) != 3 {
		t.Errorf("MarketTrends = %d entries, want 3", len(summary.MarketTrends))
	}
	if len(summary.CreativePatterns) != 3 {
		t.Errorf("CreativePatterns = %d entries, want 3", len(summary.CreativePatterns))
	}
	if summary.AuthorMood != MoodEnergetic {
		t.Errorf("AuthorMood = %s, want energetic", summary.AuthorMood)
	}
	if summary.WritingStyle != "energetic" {
		t.Errorf("WritingStyle = %s, want energetic", summary.WritingStyle)
	}
	if summary.SynthesisQuality != 0.8 {
		t.Errorf("SynthesisQuality = %v, want 0.8", summary.SynthesisQuality)
	}
}

func TestGetPrimaryContextSummary_NilAuthor(t *testing.T) {
	sc := &SynthesizedContext{}
	summary := sc.GetPrimaryContextSummary()
	if summary.AuthorMood != "" || summary.WritingStyle != "" {
		t.Errorf("Expected empty author fields, got %+v", summary)
	}
}
