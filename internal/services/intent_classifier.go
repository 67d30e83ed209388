package services

import (
	"sort"
	"strings"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
)

// intentFallbackThreshold is the confidence below which classification falls
// back to explore_ideas. This is a defined policy, not an error.
const intentFallbackThreshold = 0.6

// IntentClassifier scores an utterance against the intent pattern tables.
// Classification is a pure function of the utterance, the voice
// characteristics and the active table version.
type IntentClassifier struct {
	tables *heuristics.Registry
}

// NewIntentClassifier creates a classifier reading the given scoring tables.
func NewIntentClassifier(tables *heuristics.Registry) *IntentClassifier {
	return &IntentClassifier{tables: tables}
}

// Classify returns the best-scoring intent and its confidence. When no intent
// reaches the fallback threshold the result is explore_ideas.
func (c *IntentClassifier) Classify(text string, vc models.VoiceCharacteristics) (models.Intent, float64) {
	tables := c.tables.Current()
	lower := strings.ToLower(text)

	bestIntent := models.IntentExploreIdeas
	bestConfidence := 0.0

	// Iterate in the stable enum order so ties resolve deterministically.
	for _, intent := range models.AllIntents() {
		patterns := tables.IntentPatterns[string(intent)]
		if len(patterns) == 0 {
			continue
		}

		matches := 0
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		// Normalize by pattern-set size so large tables don't dominate.
		score := float64(matches) / float64(len(patterns))
		score *= voiceMultiplier(tables, intent, vc)

		confidence := score*2 + 0.4*float64(matches)
		if confidence > 1.0 {
			confidence = 1.0
		}

		if confidence > bestConfidence {
			bestConfidence = confidence
			bestIntent = intent
		}
	}

	if bestConfidence < intentFallbackThreshold {
		return models.IntentExploreIdeas, bestConfidence
	}
	return bestIntent, bestConfidence
}

// voiceMultiplier folds the conditional voice boosts into an intent score.
func voiceMultiplier(tables *heuristics.Tables, intent models.Intent, vc models.VoiceCharacteristics) float64 {
	mult := 1.0
	for _, boost := range tables.IntentVoiceBoosts {
		if boost.Intent != string(intent) {
			continue
		}
		signal := voiceSignal(boost.Signal, vc)
		if boost.Above > 0 && signal > boost.Above {
			mult *= boost.Multiplier
		}
		if boost.Below > 0 && signal < boost.Below {
			mult *= boost.Multiplier
		}
	}
	return mult
}

func voiceSignal(name string, vc models.VoiceCharacteristics) float64 {
	switch name {
	case "confidence_level":
		return vc.ConfidenceLevel
	case "pace":
		return vc.Pace
	case "clarity_score":
		return vc.ClarityScore
	}
	return 0
}

// sortedKeys returns map keys in lexical order for deterministic iteration.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
