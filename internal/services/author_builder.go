package services

import (
	"context"
	"log"
	"time"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
)

// recentSessionWindowDays is how far back session history informs the
// success-pattern rankings.
const recentSessionWindowDays = 30

// AuthorContextBuilder maintains the per-author profile, updated
// incrementally from each voice input and from stored session history.
// BuildContext always returns a usable context; internal failures degrade to
// a minimal context carrying only the utterance's mood, intent and energy.
type AuthorContextBuilder struct {
	store    *ContextMemoryStore
	style    *WritingStyleAnalyzer
	prefs    *PreferenceEngine
	patterns *SuccessPatternsAnalyzer
}

// NewAuthorContextBuilder wires the author-layer pipeline.
func NewAuthorContextBuilder(store *ContextMemoryStore, tables *heuristics.Registry) *AuthorContextBuilder {
	return &AuthorContextBuilder{
		store:    store,
		style:    NewWritingStyleAnalyzer(tables),
		prefs:    NewPreferenceEngine(tables),
		patterns: NewSuccessPatternsAnalyzer(),
	}
}

// BuildContext folds one utterance into the author's stored profile and
// returns the updated snapshot. Persistence failures are logged, never
// surfaced; the returned context is valid either way.
func (b *AuthorContextBuilder) BuildContext(ctx context.Context, userID string, input *models.VoiceInput) *models.AuthorContext {
	if input == nil {
		return b.minimalContext(userID, nil)
	}

	ac, err := b.store.GetAuthorContext(ctx, userID)
	if err != nil {
		log.Printf("⚠️  [AUTHOR] Could not load context for %s, starting fresh: %v", userID, err)
	}
	if ac == nil {
		ac = models.NewAuthorContext(userID)
	}

	// Style: replace tone only on confident evidence, blend complexity.
	obs := b.style.AnalyzeVoiceInput(input.Text)
	if obs.ToneConfidence > 0.5 {
		ac.WritingStyle.Tone = obs.Tone
	}
	ac.WritingStyle.BlendComplexity(obs.Complexity)
	for _, marker := range obs.CreativeMarkers {
		ac.WritingStyle.AddTheme(marker)
	}

	b.prefs.UpdatePreferences(&ac.Preferences, &ac.WritingStyle, input.Text)

	sessions, err := b.store.GetRecentSessions(ctx, userID, recentSessionWindowDays)
	if err != nil {
		log.Printf("⚠️  [AUTHOR] Could not load recent sessions for %s: %v", userID, err)
	}
	ac.SuccessPatterns = b.patterns.Analyze(ac.PastWorks, sessions)

	ac.CurrentMood = deriveCurrentMood(input.Emotions)
	ac.SessionIntent = input.Intent

	// Monotonic counters.
	ac.TotalSessions++
	ac.TotalWordsCreated += input.WordCount()
	ac.LastUpdated = time.Now().UTC()

	if err := b.store.StoreAuthorContext(ctx, ac); err != nil {
		log.Printf("⚠️  [AUTHOR] Persist failed for %s (context still returned): %v", userID, err)
	}
	return ac
}

// deriveCurrentMood is a priority-ordered rule cascade over the emotion
// profile. First matching rule wins; default is focused.
func deriveCurrentMood(emotions models.EmotionProfile) models.CreativeMood {
	switch {
	case emotions.PrimaryEmotion == models.EmotionExcited && emotions.EnergyLevel > 0.7:
		return models.MoodEnergetic
	case emotions.EnthusiasmScore > 0.7:
		return models.MoodPassionate
	case emotions.PrimaryEmotion == models.EmotionCalm && emotions.EnergyLevel < 0.4:
		return models.MoodReflective
	case emotions.PrimaryEmotion == models.EmotionHappy && emotions.EnergyLevel > 0.5:
		return models.MoodPlayful
	case emotions.PrimaryEmotion == models.EmotionConfident:
		return models.MoodDetermined
	case emotions.PrimaryEmotion == models.EmotionCurious:
		return models.MoodExperimental
	default:
		return models.MoodFocused
	}
}

// minimalContext is the degraded result when nothing can be loaded or built.
func (b *AuthorContextBuilder) minimalContext(userID string, input *models.VoiceInput) *models.AuthorContext {
	ac := models.NewAuthorContext(userID)
	if input != nil {
		ac.CurrentMood = deriveCurrentMood(input.Emotions)
		ac.SessionIntent = input.Intent
	}
	return ac
}
