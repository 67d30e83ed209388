package models

import "time"

// maxFavoriteThemes bounds the favorite_themes list to the most recent entries.
const maxFavoriteThemes = 20

// WritingStyleProfile is the author's evolving style, updated incrementally
// from each processed utterance.
type WritingStyleProfile struct {
	Tone             string   `json:"tone"`
	Complexity       float64  `json:"complexity"` // 0.0-1.0
	VocabularyLevel  string   `json:"vocabulary_level"`
	GenrePreferences []string `json:"genre_preferences,omitempty"`
	FavoriteThemes   []string `json:"favorite_themes,omitempty"`
}

// DefaultWritingStyle returns the profile assumed for a first-contact author.
func DefaultWritingStyle() WritingStyleProfile {
	return WritingStyleProfile{
		Tone:            "neutral",
		Complexity:      0.5,
		VocabularyLevel: "intermediate",
	}
}

// AddGenre appends a genre preference if not already present.
func (w *WritingStyleProfile) AddGenre(genre string) {
	for _, g := range w.GenrePreferences {
		if g == genre {
			return
		}
	}
	w.GenrePreferences = append(w.GenrePreferences, genre)
}

// AddTheme records a theme, keeping only the most recent entries.
func (w *WritingStyleProfile) AddTheme(theme string) {
	for i, t := range w.FavoriteThemes {
		if t == theme {
			// Move to the end (most recent position).
			w.FavoriteThemes = append(w.FavoriteThemes[:i], w.FavoriteThemes[i+1:]...)
			break
		}
	}
	w.FavoriteThemes = append(w.FavoriteThemes, theme)
	if len(w.FavoriteThemes) > maxFavoriteThemes {
		w.FavoriteThemes = w.FavoriteThemes[len(w.FavoriteThemes)-maxFavoriteThemes:]
	}
}

// BlendComplexity applies exponential smoothing: 30% new observation, 70% history.
func (w *WritingStyleProfile) BlendComplexity(observed float64) {
	w.Complexity = Clamp01(0.3*observed + 0.7*w.Complexity)
}

// UserPreferences are the author's stated or inferred goals.
type UserPreferences struct {
	TargetAudience     string   `json:"target_audience"`
	PublishingGoals    []string `json:"publishing_goals,omitempty"` // set union over time, never removed
	CollaborationStyle string   `json:"collaboration_style"`
	FeedbackFrequency  string   `json:"feedback_frequency"`
	QualityFocus       string   `json:"quality_focus"`
}

// DefaultPreferences returns the preferences assumed before anything is stated.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		TargetAudience:     "general",
		CollaborationStyle: "collaborative",
		FeedbackFrequency:  "periodic",
		QualityFocus:       "balanced",
	}
}

// AddGoal unions a publishing goal into the list.
func (p *UserPreferences) AddGoal(goal string) {
	for _, g := range p.PublishingGoals {
		if g == goal {
			return
		}
	}
	p.PublishingGoals = append(p.PublishingGoals, goal)
}

// SuccessMetrics records the measured outcome of a finished work.
type SuccessMetrics struct {
	OverallScore float64 `json:"overall_score"` // 0.0-1.0
	Sales        int     `json:"sales,omitempty"`
	Reviews      int     `json:"reviews,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
}

// WorkProfile is an immutable record of one past finished work.
type WorkProfile struct {
	WorkID         string         `json:"work_id"`
	Title          string         `json:"title"`
	Genre          string         `json:"genre"`
	Length         int            `json:"length"` // words
	Themes         []string       `json:"themes,omitempty"`
	SuccessMetrics SuccessMetrics `json:"success_metrics"`
	CompletedAt    time.Time      `json:"completed_at"`
}

// SuccessPatterns is derived insight over the author's works and sessions.
// Rankings are recomputed on every build, never updated incrementally.
type SuccessPatterns struct {
	EffectiveGenres     []string `json:"effective_genres,omitempty"` // ranked best-first
	EffectiveThemes     []string `json:"effective_themes,omitempty"`
	OptimalWritingTimes []string `json:"optimal_writing_times,omitempty"` // morning/afternoon/evening/night
	ProductiveMoods     []string `json:"productive_moods,omitempty"`
	ConsistencyScore    float64  `json:"consistency_score"` // 1 - (max-min overall_score)
}

// AuthorContext is the full per-author snapshot layer.
type AuthorContext struct {
	UserID            string              `json:"user_id"`
	WritingStyle      WritingStyleProfile `json:"writing_style"`
	Preferences       UserPreferences     `json:"preferences"`
	PastWorks         []WorkProfile       `json:"past_works,omitempty"`
	SuccessPatterns   SuccessPatterns     `json:"success_patterns"`
	CurrentMood       CreativeMood        `json:"current_mood"`
	SessionIntent     Intent              `json:"session_intent"`
	TotalSessions     int                 `json:"total_sessions"`      // monotonic
	TotalWordsCreated int                 `json:"total_words_created"` // monotonic
	LastUpdated       time.Time           `json:"last_updated"`
}

// NewAuthorContext returns the minimal first-contact context for a user.
func NewAuthorContext(userID string) *AuthorContext {
	return &AuthorContext{
		UserID:       userID,
		WritingStyle: DefaultWritingStyle(),
		Preferences:  DefaultPreferences(),
		CurrentMood:  MoodFocused,
		LastUpdated:  time.Now().UTC(),
	}
}
