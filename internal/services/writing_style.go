package services

import (
	"strings"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
)

// maxCreativeMarkers caps how many markers one utterance contributes.
const maxCreativeMarkers = 5

// StyleObservation is what one utterance reveals about the author's style.
type StyleObservation struct {
	Tone            string
	ToneConfidence  float64
	Complexity      float64
	CreativeMarkers []string // "category:keyword"
}

// WritingStyleAnalyzer derives style signals from utterance text.
type WritingStyleAnalyzer struct {
	tables *heuristics.Registry
}

// NewWritingStyleAnalyzer creates an analyzer reading the given tables.
func NewWritingStyleAnalyzer(tables *heuristics.Registry) *WritingStyleAnalyzer {
	return &WritingStyleAnalyzer{tables: tables}
}

// AnalyzeVoiceInput inspects one utterance for tone, complexity and creative
// vocabulary markers.
func (a *WritingStyleAnalyzer) AnalyzeVoiceInput(text string) StyleObservation {
	tables := a.tables.Current()
	lower := strings.ToLower(text)

	obs := StyleObservation{Tone: "neutral", Complexity: estimateComplexity(text)}

	// Tone: arg-max of keyword coverage per category.
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
		if ratio > obs.ToneConfidence {
			obs.ToneConfidence = ratio
			obs.Tone = tone
		}
	}
	// A single hit in a large category is weak evidence; scale so two or
	// more hits are needed before the tone is trusted enough to replace
	// the stored profile tone.
	obs.ToneConfidence = models.Clamp01(obs.ToneConfidence * 4)

	// Creative markers: category:keyword pairs, capped.
	for _, category := range sortedKeys(tables.CreativeMarkers) {
		for _, kw := range tables.CreativeMarkers[category] {
			if len(obs.CreativeMarkers) >= maxCreativeMarkers {
				return obs
			}
			if strings.Contains(lower, kw) {
				obs.CreativeMarkers = append(obs.CreativeMarkers, category+":"+kw)
			}
		}
	}
	return obs
}

// estimateComplexity buckets text complexity from average sentence length and
// an average-syllables-per-word estimate.
func estimateComplexity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0.5
	}

	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	totalSyllables := 0
	for _, w := range words {
		totalSyllables += countSyllables(w)
	}
	syllablesPerWord := float64(totalSyllables) / float64(len(words))

	// 25 words/sentence and 3 syllables/word each saturate their half.
	lengthComponent := models.Clamp01(wordsPerSentence / 25.0)
	syllableComponent := models.Clamp01((syllablesPerWord - 1.0) / 2.0)
	return models.Clamp01(0.5*lengthComponent + 0.5*syllableComponent)
}

// countSyllables estimates syllables by counting vowel runs. A trailing
// silent 'e' is discounted and every word has at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return r < 'a' || r > 'z'
	}))
	if word == "" {
		return 1
	}

	isVowel := func(r byte) bool {
		return r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u' || r == 'y'
	}

	count := 0
	inRun := false
	for i := 0; i < len(word); i++ {
		if isVowel(word[i]) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	if strings.HasSuffix(word, "e") && count > 1 && !isVowel(word[len(word)-2]) {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
