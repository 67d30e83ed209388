package models

import "time"

// MarketContext is a snapshot of the external market layer, refreshed on a TTL.
type MarketContext struct {
	TrendingCategories []string  `json:"trending_categories,omitempty"`
	TrendingKeywords   []string  `json:"trending_keywords,omitempty"`
	CompetitionLevel   string    `json:"competition_level"`
	SeasonalFactors    []string  `json:"seasonal_factors,omitempty"`
	FetchedAt          time.Time `json:"fetched_at"`
}

// CreativePattern is one reusable narrative archetype from the creative library.
type CreativePattern struct {
	Name       string   `json:"name"`
	Genre      string   `json:"genre"`
	Tone       string   `json:"tone"`
	Elements   []string `json:"elements,omitempty"`
	Popularity float64  `json:"popularity"` // 0.0-1.0
}

// CreativeContext is a snapshot of the creative-library layer.
type CreativeContext struct {
	Patterns         []CreativePattern `json:"patterns,omitempty"`
	GenreConventions []string          `json:"genre_conventions,omitempty"`
	ThemeSuggestions []string          `json:"theme_suggestions,omitempty"`
	FetchedAt        time.Time         `json:"fetched_at"`
}

// PublishingContext is a snapshot of the publishing-platform layer.
type PublishingContext struct {
	TargetFormats    []string  `json:"target_formats,omitempty"`
	SEOKeywords      []string  `json:"seo_keywords,omitempty"`
	PricingGuidance  string    `json:"pricing_guidance"`
	CategoryGuidance []string  `json:"category_guidance,omitempty"`
	FetchedAt        time.Time `json:"fetched_at"`
}

// ContextSynthesisWeights are the attention weights over the four context
// layers. After Normalize the four weights sum to 1.0.
type ContextSynthesisWeights struct {
	AuthorWeight     float64 `json:"author_weight"`
	MarketWeight     float64 `json:"market_weight"`
	CreativeWeight   float64 `json:"creative_weight"`
	PublishingWeight float64 `json:"publishing_weight"`
}

// Normalize rescales the weights so they sum to exactly 1.0. A degenerate
// all-zero input falls back to the balanced default.
func (w *ContextSynthesisWeights) Normalize() {
	sum := w.AuthorWeight + w.MarketWeight + w.CreativeWeight + w.PublishingWeight
	if sum <= 0 {
		*w = DefaultSynthesisWeights()
		return
	}
	w.AuthorWeight /= sum
	w.MarketWeight /= sum
	w.CreativeWeight /= sum
	w.PublishingWeight /= sum
}

// Sum returns the total of the four weights.
func (w ContextSynthesisWeights) Sum() float64 {
	return w.AuthorWeight + w.MarketWeight + w.CreativeWeight + w.PublishingWeight
}

// DefaultSynthesisWeights is the balanced weighting used for intents without a
// dedicated entry in the weight table.
func DefaultSynthesisWeights() ContextSynthesisWeights {
	return ContextSynthesisWeights{
		AuthorWeight:     0.4,
		MarketWeight:     0.2,
		CreativeWeight:   0.3,
		PublishingWeight: 0.1,
	}
}

// SynthesizedContext is the final fused context returned to the generation
// pipeline. Quality and coherence are recomputed per synthesis, never cached.
type SynthesizedContext struct {
	SynthesisID             string                  `json:"synthesis_id"`
	SessionID               string                  `json:"session_id"`
	UserID                  string                  `json:"user_id"`
	Author                  *AuthorContext          `json:"author"`
	Market                  MarketContext           `json:"market"`
	Creative                CreativeContext         `json:"creative"`
	Publishing              PublishingContext       `json:"publishing"`
	Weights                 ContextSynthesisWeights `json:"weights"`
	QualityScore            float64                 `json:"quality_score"`                      // 0.0-1.0
	CoherenceScore          float64                 `json:"coherence_score"`                    // 0.0-1.0
	OptimizationSuggestions []string                `json:"optimization_suggestions,omitempty"` // at most 5
	CreatedAt               time.Time               `json:"created_at"`
}

// ContextSummary is the compact projection consumed as generation guidance.
type ContextSummary struct {
	AuthorMood       CreativeMood `json:"author_mood"`
	WritingStyle     string       `json:"writing_style"`
	GenrePreferences []string     `json:"genre_preferences,omitempty"`
	MarketTrends     []string     `json:"market_trends,omitempty"`     // at most 3
	CreativePatterns []string     `json:"creative_patterns,omitempty"` // at most 3
	TargetFormats    []string     `json:"target_formats,omitempty"`
	SynthesisQuality float64      `json:"synthesis_quality"`
}

// GetPrimaryContextSummary projects the synthesized context down to the fields
// the generation pipeline actually steers on.
func (s *SynthesizedContext) GetPrimaryContextSummary() ContextSummary {
	summary := ContextSummary{
		MarketTrends:     capStrings(s.Market.TrendingCategories, 3),
		TargetFormats:    s.Publishing.TargetFormats,
		SynthesisQuality: s.QualityScore,
	}
	if s.Author != nil {
		summary.AuthorMood = s.Author.CurrentMood
		summary.WritingStyle = s.Author.WritingStyle.Tone
		summary.GenrePreferences = s.Author.WritingStyle.GenrePreferences
	}
	for i, p := range s.Creative.Patterns {
		if i >= 3 {
			break
		}
		summary.CreativePatterns = append(summary.CreativePatterns, p.Name)
	}
	return summary
}

func capStrings(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
