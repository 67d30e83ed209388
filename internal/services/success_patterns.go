package services

import (
	"sort"

	"vibecode/internal/models"
)

// SuccessPatternsAnalyzer derives ranked insight from an author's past works
// and recent sessions. Rankings are recomputed from scratch on every call.
type SuccessPatternsAnalyzer struct{}

// NewSuccessPatternsAnalyzer creates the analyzer.
func NewSuccessPatternsAnalyzer() *SuccessPatternsAnalyzer {
	return &SuccessPatternsAnalyzer{}
}

// Analyze builds the full success-patterns snapshot.
func (a *SuccessPatternsAnalyzer) Analyze(works []models.WorkProfile, sessions []models.SessionSummary) models.SuccessPatterns {
	return models.SuccessPatterns{
		EffectiveGenres:     rankGenres(works),
		EffectiveThemes:     rankThemes(works),
		OptimalWritingTimes: rankWritingTimes(sessions),
		ProductiveMoods:     rankMoods(sessions),
		ConsistencyScore:    consistencyScore(works),
	}
}

type rankedEntry struct {
	name  string
	score float64
}

// rankByMean sorts entries by mean score descending, name ascending on ties.
func rankByMean(sums map[string]float64, counts map[string]int, minCount int) []string {
	entries := make([]rankedEntry, 0, len(sums))
	for name, sum := range sums {
		if counts[name] < minCount {
			continue
		}
		entries = append(entries, rankedEntry{name, sum / float64(counts[name])})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].name < entries[j].name
	})

	ranked := make([]string, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, e.name)
	}
	return ranked
}

// rankGenres orders genres by mean overall score across past works.
func rankGenres(works []models.WorkProfile) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, w := range works {
		if w.Genre == "" {
			continue
		}
		sums[w.Genre] += w.SuccessMetrics.OverallScore
		counts[w.Genre]++
	}
	return rankByMean(sums, counts, 1)
}

// rankThemes orders themes appearing in at least two works by mean score.
func rankThemes(works []models.WorkProfile) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, w := range works {
		for _, theme := range w.Themes {
			sums[theme] += w.SuccessMetrics.OverallScore
			counts[theme]++
		}
	}
	return rankByMean(sums, counts, 2)
}

// timeOfDayBucket maps an hour to the four writing-time buckets.
func timeOfDayBucket(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// rankWritingTimes orders time-of-day buckets by mean words per minute.
func rankWritingTimes(sessions []models.SessionSummary) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range sessions {
		if s.WordsPerMinute <= 0 {
			continue
		}
		bucket := timeOfDayBucket(s.StartTime.Hour())
		sums[bucket] += s.WordsPerMinute
		counts[bucket]++
	}
	return rankByMean(sums, counts, 1)
}

// rankMoods orders session moods by mean words per minute.
func rankMoods(sessions []models.SessionSummary) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range sessions {
		if s.Mood == "" || s.WordsPerMinute <= 0 {
			continue
		}
		sums[string(s.Mood)] += s.WordsPerMinute
		counts[string(s.Mood)]++
	}
	return rankByMean(sums, counts, 1)
}

// consistencyScore is 1 minus the spread of overall scores across works.
// No works means no evidence, scored as 0.
func consistencyScore(works []models.WorkProfile) float64 {
	if len(works) == 0 {
		return 0
	}
	minScore, maxScore := works[0].SuccessMetrics.OverallScore, works[0].SuccessMetrics.OverallScore
	for _, w := range works[1:] {
		s := w.SuccessMetrics.OverallScore
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}
	return models.Clamp01(1.0 - (maxScore - minScore))
}
