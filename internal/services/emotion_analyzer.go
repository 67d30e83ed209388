package services

import (
	"strings"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
	"vibecode/internal/transcription"
)

// Text carries 60% of the emotional read, voice signals the remaining 40%.
const (
	textEmotionWeight  = 0.6
	voiceEmotionWeight = 0.4
)

// secondaryEmotionThreshold filters which non-primary emotions are reported.
const secondaryEmotionThreshold = 0.1

// EmotionAnalyzer derives an EmotionProfile from the transcript and the
// voice-derived signals.
type EmotionAnalyzer struct {
	tables *heuristics.Registry
}

// NewEmotionAnalyzer creates an analyzer reading the given scoring tables.
func NewEmotionAnalyzer(tables *heuristics.Registry) *EmotionAnalyzer {
	return &EmotionAnalyzer{tables: tables}
}

// emotionOrder fixes the iteration order for deterministic arg-max results.
var emotionOrder = []models.Emotion{
	models.EmotionExcited, models.EmotionHappy, models.EmotionCalm,
	models.EmotionFocused, models.EmotionCurious, models.EmotionConfident,
	models.EmotionFrustrated, models.EmotionAnxious, models.EmotionTired,
}

// Analyze produces the full emotional read of one utterance.
func (a *EmotionAnalyzer) Analyze(text string, vc models.VoiceCharacteristics, analysis transcription.AudioAnalysis) models.EmotionProfile {
	textScores := a.scoreTextEmotions(text)
	voiceScores := scoreVoiceEmotions(vc, analysis)

	combined := make(map[models.Emotion]float64, len(emotionOrder))
	for _, emotion := range emotionOrder {
		combined[emotion] = textEmotionWeight*textScores[emotion] + voiceEmotionWeight*voiceScores[emotion]
	}

	primary := models.EmotionNeutral
	intensity := 0.0
	for _, emotion := range emotionOrder {
		if combined[emotion] > intensity {
			intensity = combined[emotion]
			primary = emotion
		}
	}

	profile := models.EmotionProfile{
		PrimaryEmotion:    primary,
		SecondaryEmotions: secondaryEmotions(combined, primary),
		Intensity:         intensity,
		EnergyLevel:       energyLevel(vc, analysis),
		EnthusiasmScore:   a.enthusiasm(text, combined),
	}
	profile.Mood = a.detectMood(text, profile, vc)
	profile.Clamp()
	return profile
}

// scoreTextEmotions scores each emotion by keyword hits, saturating at 1.0.
func (a *EmotionAnalyzer) scoreTextEmotions(text string) map[models.Emotion]float64 {
	tables := a.tables.Current()
	lower := strings.ToLower(text)

	scores := make(map[models.Emotion]float64)
	for _, emotion := range emotionOrder {
		hits := 0
		for _, kw := range tables.EmotionKeywords[string(emotion)] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		scores[emotion] = models.Clamp01(float64(hits) * 0.4)
	}
	return scores
}

// scoreVoiceEmotions maps paralinguistic signals onto emotion evidence.
func scoreVoiceEmotions(vc models.VoiceCharacteristics, analysis transcription.AudioAnalysis) map[models.Emotion]float64 {
	scores := make(map[models.Emotion]float64)

	if analysis.Energy > 0.7 {
		scores[models.EmotionExcited] += 0.6
		scores[models.EmotionHappy] += 0.3
	}
	if analysis.Energy < 0.3 {
		scores[models.EmotionTired] += 0.5
		scores[models.EmotionCalm] += 0.4
	}
	if vc.Pace > 1.3 {
		scores[models.EmotionExcited] += 0.3
	}
	if vc.Pace < 0.7 {
		scores[models.EmotionCalm] += 0.3
	}
	if vc.ConfidenceLevel > 0.8 {
		scores[models.EmotionConfident] += 0.4
	}
	if vc.ConfidenceLevel < 0.3 {
		scores[models.EmotionAnxious] += 0.3
	}
	if analysis.SpeechStability > 0.8 && analysis.Energy >= 0.3 && analysis.Energy <= 0.7 {
		scores[models.EmotionFocused] += 0.3
	}

	for emotion, score := range scores {
		scores[emotion] = models.Clamp01(score)
	}
	return scores
}

// secondaryEmotions returns the next three emotions above the threshold.
func secondaryEmotions(combined map[models.Emotion]float64, primary models.Emotion) []models.Emotion {
	var secondary []models.Emotion
	// Walk a score-then-order ranking: repeatedly take the best remaining.
	taken := map[models.Emotion]bool{primary: true}
	for len(secondary) < 3 {
		best := models.Emotion("")
		bestScore := secondaryEmotionThreshold
		for _, emotion := range emotionOrder {
			if taken[emotion] {
				continue
			}
			if combined[emotion] > bestScore {
				bestScore = combined[emotion]
				best = emotion
			}
		}
		if best == "" {
			break
		}
		taken[best] = true
		secondary = append(secondary, best)
	}
	return secondary
}

// energyLevel fuses audio energy with pace into one 0-1 figure.
func energyLevel(vc models.VoiceCharacteristics, analysis transcription.AudioAnalysis) float64 {
	paceComponent := (vc.Pace - 0.3) / 2.7 // map [0.3,3.0] onto [0,1]
	return models.Clamp01(0.7*analysis.Energy + 0.3*paceComponent)
}

// enthusiasm blends positive-emotion evidence with exclamation density.
func (a *EmotionAnalyzer) enthusiasm(text string, combined map[models.Emotion]float64) float64 {
	score := 0.6*combined[models.EmotionExcited] + 0.4*combined[models.EmotionHappy]
	exclaims := strings.Count(text, "!")
	score += models.Clamp01(float64(exclaims)*0.15) * 0.5
	return models.Clamp01(score)
}

// moodOrder fixes mood iteration for deterministic arg-max results.
var moodOrder = []models.CreativeMood{
	models.MoodEnergetic, models.MoodPassionate, models.MoodFocused,
	models.MoodReflective, models.MoodPlayful, models.MoodDetermined,
	models.MoodExperimental, models.MoodRelaxed,
}

// detectMood scores the creative-mood pattern table, layers the voice-signal
// boosts on top, and takes the arg-max. Default is focused.
func (a *EmotionAnalyzer) detectMood(text string, profile models.EmotionProfile, vc models.VoiceCharacteristics) models.CreativeMood {
	tables := a.tables.Current()
	lower := strings.ToLower(text)

	scores := make(map[models.CreativeMood]float64)
	for _, mood := range moodOrder {
		for _, kw := range tables.MoodPatterns[string(mood)] {
			if strings.Contains(lower, kw) {
				scores[mood] += 0.3
			}
		}
	}

	for _, boost := range tables.MoodVoiceBoosts {
		signal := moodSignal(boost.Signal, profile, vc)
		if boost.Above > 0 && signal > boost.Above {
			scores[models.CreativeMood(boost.Mood)] += boost.Bonus
		}
		if boost.Below > 0 && signal < boost.Below {
			scores[models.CreativeMood(boost.Mood)] += boost.Bonus
		}
	}

	best := models.MoodFocused
	bestScore := 0.0
	for _, mood := range moodOrder {
		if scores[mood] > bestScore {
			bestScore = scores[mood]
			best = mood
		}
	}
	return best
}

func moodSignal(name string, profile models.EmotionProfile, vc models.VoiceCharacteristics) float64 {
	switch name {
	case "energy_level":
		return profile.EnergyLevel
	case "enthusiasm":
		return profile.EnthusiasmScore
	case "pace":
		return vc.Pace
	}
	return 0
}
