package services

import (
	"strings"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
	"vibecode/internal/transcription"
)

// paceBaselineWPM is the speaking rate treated as pace 1.0.
const paceBaselineWPM = 150.0

// VoiceCharacteristicsExtractor derives tone, pace, clarity and confidence
// from a transcript plus its audio analysis.
type VoiceCharacteristicsExtractor struct {
	tables *heuristics.Registry
}

// NewVoiceCharacteristicsExtractor creates an extractor reading the given
// scoring tables.
func NewVoiceCharacteristicsExtractor(tables *heuristics.Registry) *VoiceCharacteristicsExtractor {
	return &VoiceCharacteristicsExtractor{tables: tables}
}

// Extract computes the voice characteristics for one utterance.
func (e *VoiceCharacteristicsExtractor) Extract(text string, analysis transcription.AudioAnalysis) models.VoiceCharacteristics {
	return models.VoiceCharacteristics{
		Tone:            e.detectTone(text, analysis),
		Pace:            extractPace(text, analysis),
		ClarityScore:    extractClarity(analysis),
		ConfidenceLevel: e.extractConfidence(text, analysis),
	}
}

// extractPace converts words-per-minute to a relative pace, clamped to
// [0.3, 3.0]. With no usable duration the pace is neutral.
func extractPace(text string, analysis transcription.AudioAnalysis) float64 {
	words := len(strings.Fields(text))
	if analysis.Duration <= 0 || words == 0 {
		return 1.0
	}
	wpm := float64(words) / (analysis.Duration / 60.0)
	pace := wpm / paceBaselineWPM
	if pace < 0.3 {
		return 0.3
	}
	if pace > 3.0 {
		return 3.0
	}
	return pace
}

// detectTone applies the rule table: strong voice signals first, then keyword
// coverage over the tone categories, then neutral.
func (e *VoiceCharacteristicsExtractor) detectTone(text string, analysis transcription.AudioAnalysis) string {
	tables := e.tables.Current()
	lower := strings.ToLower(text)

	bestTone := ""
	bestRatio := 0.0
	for _, tone := range sortedKeys(tables.ToneKeywords) {
		keywords := tables.ToneKeywords[tone]
		if len(keywords) == 0 {
			continue
		}
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		ratio := float64(hits) / float64(len(keywords))
		if ratio > bestRatio {
			bestRatio = ratio
			bestTone = tone
		}
	}
	if bestTone != "" {
		return bestTone
	}

	// No keyword signal: fall back to voice energy.
	switch {
	case analysis.Energy > 0.7 && analysis.PitchVariance > 0.5:
		return "energetic"
	case analysis.Energy < 0.3:
		return "contemplative"
	default:
		return "neutral"
	}
}

// extractClarity blends signal-to-noise with articulation.
func extractClarity(analysis transcription.AudioAnalysis) float64 {
	return models.Clamp01(0.6*analysis.SignalToNoise + 0.4*analysis.ArticulationScore)
}

// extractConfidence blends volume consistency, pause and filler ratios with
// confidence/uncertainty wording.
func (e *VoiceCharacteristicsExtractor) extractConfidence(text string, analysis transcription.AudioAnalysis) float64 {
	tables := e.tables.Current()
	lower := strings.ToLower(text)

	score := 0.4 * analysis.VolumeConsistency

	// Frequent pauses and fillers read as hesitation.
	pausePenalty := analysis.PauseFrequency / 20.0 // 20 pauses/min saturates
	if pausePenalty > 1 {
		pausePenalty = 1
	}
	score += 0.2 * (1.0 - pausePenalty)
	score += 0.2 * (1.0 - models.Clamp01(analysis.FillerWordRatio*4))

	wordBalance := 0.5
	for _, w := range tables.ConfidenceWords {
		if strings.Contains(lower, w) {
			wordBalance += 0.15
		}
	}
	for _, w := range tables.UncertaintyWords {
		if strings.Contains(lower, w) {
			wordBalance -= 0.15
		}
	}
	score += 0.2 * models.Clamp01(wordBalance)

	return models.Clamp01(score)
}
