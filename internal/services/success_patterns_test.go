package services

import (
	"math"
	"testing"
	"time"

	"vibecode/internal/models"
)

func work(genre string, score float64, themes ...string) models.WorkProfile {
	return models.WorkProfile{
		Genre:          genre,
		Themes:         themes,
		SuccessMetrics: models.SuccessMetrics{OverallScore: score},
	}
}

func TestAnalyze_RanksGenresByMeanScore(t *testing.T) {
	a := NewSuccessPatternsAnalyzer()
	works := []models.WorkProfile{
		work("mystery", 0.9),
		work("mystery", 0.7),
		work("romance", 0.6),
		work("scifi", 0.85),
	}

	patterns := a.Analyze(works, nil)
	want := []string{"scifi", "mystery", "romance"} // means: 0.85, 0.8, 0.6
	if len(patterns.EffectiveGenres) != len(want) {
		t.Fatalf("EffectiveGenres = %v, want %v", patterns.EffectiveGenres, want)
	}
	for i := range want {
		if patterns.EffectiveGenres[i] != want[i] {
			t.Errorf("EffectiveGenres[%d] = %s, want %s", i, patterns.EffectiveGenres[i], want[i])
		}
	}
}

func TestAnalyze_ThemesNeedTwoWorks(t *testing.T) {
	a := NewSuccessPatternsAnalyzer()
	works := []models.WorkProfile{
		work("mystery", 0.9, "betrayal", "small towns"),
		work("mystery", 0.7, "betrayal"),
	}

	patterns := a.Analyze(works, nil)
	if len(patterns.EffectiveThemes) != 1 || patterns.EffectiveThemes[0] != "betrayal" {
		t.Errorf("EffectiveThemes = %v, want [betrayal]", patterns.EffectiveThemes)
	}
}

func TestConsistencyScore(t *testing.T) {
	a := NewSuccessPatternsAnalyzer()

	// Spread of 0.4 between best (0.9) and worst (0.5) gives 0.6.
	works := []models.WorkProfile{work("a", 0.9), work("b", 0.5), work("c", 0.7)}
	patterns := a.Analyze(works, nil)
	if math.Abs(patterns.ConsistencyScore-0.6) > 1e-9 {
		t.Errorf("ConsistencyScore = %v, want 0.6", patterns.ConsistencyScore)
	}

	// Single work has zero spread.
	patterns = a.Analyze([]models.WorkProfile{work("a", 0.4)}, nil)
	if patterns.ConsistencyScore != 1.0 {
		t.Errorf("Single-work consistency = %v, want 1.0", patterns.ConsistencyScore)
	}

	// No works means no evidence.
	patterns = a.Analyze(nil, nil)
	if patterns.ConsistencyScore != 0 {
		t.Errorf("Empty consistency = %v, want 0", patterns.ConsistencyScore)
	}
}

func TestTimeOfDayBucket(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "morning"}, {11, "morning"},
		{12, "afternoon"}, {16, "afternoon"},
		{17, "evening"}, {21, "evening"},
		{22, "night"}, {2, "night"}, {4, "night"},
	}
	for _, tt := range tests {
		if got := timeOfDayBucket(tt.hour); got != tt.want {
			t.Errorf("timeOfDayBucket(%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestAnalyze_WritingTimesAndMoods(t *testing.T) {
	a := NewSuccessPatternsAnalyzer()
	sessions := []models.SessionSummary{
		{StartTime: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), Mood: models.MoodFocused, WordsPerMinute: 30},
		{StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Mood: models.MoodFocused, WordsPerMinute: 26},
		{StartTime: time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC), Mood: models.MoodRelaxed, WordsPerMinute: 12},
		{StartTime: time.Date(2026, 3, 3, 23, 0, 0, 0, time.UTC), Mood: models.MoodEnergetic, WordsPerMinute: 0}, // no output, excluded
	}

	patterns := a.Analyze(nil, sessions)
	if len(patterns.OptimalWritingTimes) != 2 || patterns.OptimalWritingTimes[0] != "morning" {
		t.Errorf("OptimalWritingTimes = %v, want morning first", patterns.OptimalWritingTimes)
	}
	if len(patterns.ProductiveMoods) != 2 || patterns.ProductiveMoods[0] != "focused" {
		t.Errorf("ProductiveMoods = %v, want focused first", patterns.ProductiveMoods)
	}
}
