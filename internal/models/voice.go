package models

import (
	"strings"
	"time"
)

// Intent is the classified purpose of a single author utterance.
type Intent string

const (
	IntentCreateBook      Intent = "create_book"
	IntentContinueWriting Intent = "continue_writing"
	IntentEditContent     Intent = "edit_content"
	IntentExploreIdeas    Intent = "explore_ideas"
	IntentMarketOptimize  Intent = "market_optimize"
	IntentPublishBook     Intent = "publish_book"
	IntentCheckProgress   Intent = "check_progress"
	IntentSetPreferences  Intent = "set_preferences"
	IntentRequestFeedback Intent = "request_feedback"
	IntentPauseSession    Intent = "pause_session"
)

// AllIntents lists every classifiable intent. Order is stable for scoring.
func AllIntents() []Intent {
	return []Intent{
		IntentCreateBook, IntentContinueWriting, IntentEditContent,
		IntentExploreIdeas, IntentMarketOptimize, IntentPublishBook,
		IntentCheckProgress, IntentSetPreferences, IntentRequestFeedback,
		IntentPauseSession,
	}
}

// Emotion is a basic emotional category detected in an utterance.
type Emotion string

const (
	EmotionExcited    Emotion = "excited"
	EmotionHappy      Emotion = "happy"
	EmotionCalm       Emotion = "calm"
	EmotionFocused    Emotion = "focused"
	EmotionCurious    Emotion = "curious"
	EmotionConfident  Emotion = "confident"
	EmotionFrustrated Emotion = "frustrated"
	EmotionAnxious    Emotion = "anxious"
	EmotionTired      Emotion = "tired"
	EmotionNeutral    Emotion = "neutral"
)

// CreativeMood describes the author's working mood for a session.
type CreativeMood string

const (
	MoodEnergetic    CreativeMood = "energetic"
	MoodPassionate   CreativeMood = "passionate"
	MoodFocused      CreativeMood = "focused"
	MoodReflective   CreativeMood = "reflective"
	MoodPlayful      CreativeMood = "playful"
	MoodDetermined   CreativeMood = "determined"
	MoodExperimental CreativeMood = "experimental"
	MoodRelaxed      CreativeMood = "relaxed"
)

// EmotionProfile is the structured emotional read of one utterance.
type EmotionProfile struct {
	PrimaryEmotion    Emotion      `json:"primary_emotion"`
	SecondaryEmotions []Emotion    `json:"secondary_emotions,omitempty"`
	Intensity         float64      `json:"intensity"` // 0.0-1.0
	Mood              CreativeMood `json:"mood"`
	EnergyLevel       float64      `json:"energy_level"`     // 0.0-1.0
	EnthusiasmScore   float64      `json:"enthusiasm_score"` // 0.0-1.0
}

// Clamp bounds intensity, energy and enthusiasm to [0,1].
func (e *EmotionProfile) Clamp() {
	e.Intensity = Clamp01(e.Intensity)
	e.EnergyLevel = Clamp01(e.EnergyLevel)
	e.EnthusiasmScore = Clamp01(e.EnthusiasmScore)
}

// VoiceCharacteristics captures the paralinguistic signal of an utterance.
type VoiceCharacteristics struct {
	Tone            string  `json:"tone"`
	Pace            float64 `json:"pace"`             // relative speed, 1.0 = 150 wpm baseline
	ClarityScore    float64 `json:"clarity_score"`    // 0.0-1.0
	ConfidenceLevel float64 `json:"confidence_level"` // 0.0-1.0
}

// DefaultVoiceCharacteristics returns the neutral profile used for text-only
// input and for degraded transcription results.
func DefaultVoiceCharacteristics() VoiceCharacteristics {
	return VoiceCharacteristics{
		Tone:            "neutral",
		Pace:            1.0,
		ClarityScore:    0.8,
		ConfidenceLevel: 0.7,
	}
}

// VoiceInput is one fully processed utterance. Immutable once created.
type VoiceInput struct {
	InputID              string               `json:"input_id"`
	SessionID            string               `json:"session_id"`
	UserID               string               `json:"user_id"`
	Text                 string               `json:"text"`
	Confidence           float64              `json:"confidence"` // 0.0-1.0
	Intent               Intent               `json:"intent"`
	IntentConfidence     float64              `json:"intent_confidence"`
	Emotions             EmotionProfile       `json:"emotions"`
	VoiceCharacteristics VoiceCharacteristics `json:"voice_characteristics"`
	Timestamp            time.Time            `json:"timestamp"`
}

// WordCount returns the number of whitespace-separated words in the utterance.
func (v *VoiceInput) WordCount() int {
	return len(strings.Fields(v.Text))
}

// Clamp01 bounds a score to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
