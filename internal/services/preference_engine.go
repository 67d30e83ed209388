package services

import (
	"sort"
	"strings"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
)

// PreferenceEngine infers genre, goal and collaboration preferences from
// utterance text. Preferences only accumulate: publishing goals are unioned
// into the stored list and never removed.
type PreferenceEngine struct {
	tables *heuristics.Registry
}

// NewPreferenceEngine creates an engine reading the given tables.
func NewPreferenceEngine(tables *heuristics.Registry) *PreferenceEngine {
	return &PreferenceEngine{tables: tables}
}

// feedbackPhrases and qualityPhrases are literal-match rules; first match in
// lexical phrase order wins.
var feedbackPhrases = map[string]string{
	"check in often":   "frequent",
	"keep me updated":  "frequent",
	"don't interrupt":  "minimal",
	"only when done":   "minimal",
	"ask me as you go": "periodic",
}

var qualityPhrases = map[string]string{
	"quality over speed": "quality",
	"take your time":     "quality",
	"make it perfect":    "quality",
	"quick draft":        "speed",
	"fast draft":         "speed",
	"just get it done":   "speed",
}

// UpdatePreferences folds one utterance into the author's stored preferences
// and genre list.
func (e *PreferenceEngine) UpdatePreferences(prefs *models.UserPreferences, style *models.WritingStyleProfile, text string) {
	tables := e.tables.Current()
	lower := strings.ToLower(text)

	// Genre interest from keyword hits.
	for _, genre := range sortedKeys(tables.GenreKeywords) {
		for _, kw := range tables.GenreKeywords[genre] {
			if strings.Contains(lower, kw) {
				style.AddGenre(genre)
				break
			}
		}
	}

	// Publishing goals: union, never remove.
	for _, goal := range sortedKeys(tables.GoalKeywords) {
		for _, kw := range tables.GoalKeywords[goal] {
			if strings.Contains(lower, kw) {
				prefs.AddGoal(goal)
				break
			}
		}
	}

	// Audience: literal statements only.
	switch {
	case strings.Contains(lower, "for kids") || strings.Contains(lower, "for children"):
		prefs.TargetAudience = "children"
	case strings.Contains(lower, "young adult") || strings.Contains(lower, "for teens"):
		prefs.TargetAudience = "young_adult"
	case strings.Contains(lower, "for adults"):
		prefs.TargetAudience = "adult"
	}

	for _, phrase := range sortedPhraseKeys(tables.CollaborationPhrases) {
		if strings.Contains(lower, phrase) {
			prefs.CollaborationStyle = tables.CollaborationPhrases[phrase]
			break
		}
	}
	for _, phrase := range sortedPhraseKeys(feedbackPhrases) {
		if strings.Contains(lower, phrase) {
			prefs.FeedbackFrequency = feedbackPhrases[phrase]
			break
		}
	}
	for _, phrase := range sortedPhraseKeys(qualityPhrases) {
		if strings.Contains(lower, phrase) {
			prefs.QualityFocus = qualityPhrases[phrase]
			break
		}
	}
}

func sortedPhraseKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
