package services

import (
	"testing"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
)

func TestUpdatePreferences_GenresAndGoals(t *testing.T) {
	e := NewPreferenceEngine(heuristics.NewRegistry())
	prefs := models.DefaultPreferences()
	style := models.DefaultWritingStyle()

	e.UpdatePreferences(&prefs, &style,
		"I want a detective story that becomes a bestseller and earns royalties")

	if len(style.GenrePreferences) != 1 || style.GenrePreferences[0] != "mystery" {
		t.Errorf("Genres = %v, want [mystery]", style.GenrePreferences)
	}

	wantGoals := map[string]bool{"bestseller": true, "passive_income": true}
	if len(prefs.PublishingGoals) != len(wantGoals) {
		t.Fatalf("Goals = %v, want bestseller and passive_income", prefs.PublishingGoals)
	}
	for _, g := range prefs.PublishingGoals {
		if !wantGoals[g] {
			t.Errorf("Unexpected goal %s", g)
		}
	}
}

func TestUpdatePreferences_GoalsAccumulate(t *testing.T) {
	e := NewPreferenceEngine(heuristics.NewRegistry())
	prefs := models.DefaultPreferences()
	style := models.DefaultWritingStyle()

	e.UpdatePreferences(&prefs, &style, "I want a bestseller")
	e.UpdatePreferences(&prefs, &style, "actually let's build an audience of readers")

	// Goals union; the earlier goal is never removed.
	if len(prefs.PublishingGoals) != 2 {
		t.Errorf("Goals = %v, want both retained", prefs.PublishingGoals)
	}
}

func TestUpdatePreferences_Audience(t *testing.T) {
	e := NewPreferenceEngine(heuristics.NewRegistry())

	tests := []struct {
		text string
		want string
	}{
		{"a picture book for kids", "children"},
		{"something for teens", "young_adult"},
		{"dark fiction for adults", "adult"},
		{"a story about anything", "general"}, // unchanged default
	}

	for _, tt := range tests {
		prefs := models.DefaultPreferences()
		style := models.DefaultWritingStyle()
		e.UpdatePreferences(&prefs, &style, tt.text)
		if prefs.TargetAudience != tt.want {
			t.Errorf("Audience(%q) = %s, want %s", tt.text, prefs.TargetAudience, tt.want)
		}
	}
}

func TestUpdatePreferences_CollaborationAndPace(t *testing.T) {
	e := NewPreferenceEngine(heuristics.NewRegistry())
	prefs := models.DefaultPreferences()
	style := models.DefaultWritingStyle()

	e.UpdatePreferences(&prefs, &style, "just handle it for me, quick draft is fine")

	if prefs.CollaborationStyle != "delegating" {
		t.Errorf("CollaborationStyle = %s, want delegating", prefs.CollaborationStyle)
	}
	if prefs.QualityFocus != "speed" {
		t.Errorf("QualityFocus = %s, want speed", prefs.QualityFocus)
	}
}

func TestUpdatePreferences_FeedbackFrequency(t *testing.T) {
	e := NewPreferenceEngine(heuristics.NewRegistry())
	prefs := models.DefaultPreferences()
	style := models.DefaultWritingStyle()

	e.UpdatePreferences(&prefs, &style, "keep me updated while you write")
	if prefs.FeedbackFrequency != "frequent" {
		t.Errorf("FeedbackFrequency = %s, want frequent", prefs.FeedbackFrequency)
	}
}
