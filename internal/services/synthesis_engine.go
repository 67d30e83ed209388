package services

import (
	"context"
	"log"
	"strings"
	"time"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// layerFetchTimeout bounds each context-layer fetch. On timeout the layer
// degrades to its stale cached snapshot instead of blocking the synthesis.
const layerFetchTimeout = 5 * time.Second

// maxOptimizationSuggestions caps the advisory output.
const maxOptimizationSuggestions = 5

// ContextSynthesisEngine fans out to the four context-layer builders,
// computes attention weights and quality/coherence scores, and persists a
// synthesis record. It never returns an error to its caller: every failure
// mode degrades to a usable default context.
type ContextSynthesisEngine struct {
	author     *AuthorContextBuilder
	market     *MarketAnalyzer
	creative   *CreativeLibrary
	publishing *PublishingEngine
	store      *ContextMemoryStore
	events     *EventPublisher
	metrics    *Metrics
}

// NewContextSynthesisEngine wires the full synthesis pipeline. events and
// metrics may be nil.
func NewContextSynthesisEngine(store *ContextMemoryStore, tables *heuristics.Registry, events *EventPublisher, metrics *Metrics) *ContextSynthesisEngine {
	return &ContextSynthesisEngine{
		author:     NewAuthorContextBuilder(store, tables),
		market:     NewMarketAnalyzer(),
		creative:   NewCreativeLibrary(tables),
		publishing: NewPublishingEngine(),
		store:      store,
		events:     events,
		metrics:    metrics,
	}
}

// SynthesizeContext builds the fused context for one utterance. The four
// layers are mutually independent given the same input, so they run
// concurrently and join before the sequential scoring and persistence phase.
func (e *ContextSynthesisEngine) SynthesizeContext(ctx context.Context, userID string, input *models.VoiceInput) *models.SynthesizedContext {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.SynthesisRequests.Inc()
	}

	if input == nil || userID == "" {
		log.Printf("⚠️  [SYNTHESIS] Missing input or user ID, returning minimal context")
		return e.degradedContext(ctx, userID, input)
	}

	layerCtx, cancel := context.WithTimeout(ctx, layerFetchTimeout)
	defer cancel()

	var (
		author     *models.AuthorContext
		market     models.MarketContext
		creative   models.CreativeContext
		publishing models.PublishingContext
	)

	// Fan out. No shared state is written until the join, so no locking.
	g, gctx := errgroup.WithContext(layerCtx)
	g.Go(func() error {
		author = e.author.BuildContext(gctx, userID, input)
		return nil
	})
	g.Go(func() error {
		market = e.market.GetContext(gctx)
		return nil
	})
	g.Go(func() error {
		creative = e.creative.GetContext(gctx, input, nil)
		return nil
	})
	g.Go(func() error {
		publishing = e.publishing.GetContext(gctx, input)
		return nil
	})

	if err := g.Wait(); err != nil || layerCtx.Err() != nil {
		log.Printf("⚠️  [SYNTHESIS] Layer fetch degraded to stale snapshots: %v", layerCtx.Err())
		market = e.market.Stale()
		creative = e.creative.Stale()
		publishing = e.publishing.Stale()
		if author == nil {
			author = models.NewAuthorContext(userID)
		}
	}

	weights := ComputeSynthesisWeights(input.Intent, author.TotalSessions)

	sc := &models.SynthesizedContext{
		SynthesisID: uuid.New().String(),
		SessionID:   input.SessionID,
		UserID:      userID,
		Author:      author,
		Market:      market,
		Creative:    creative,
		Publishing:  publishing,
		Weights:     weights,
		CreatedAt:   time.Now().UTC(),
	}
	sc.QualityScore = qualityScore(sc)
	sc.CoherenceScore = coherenceScore(sc)
	sc.OptimizationSuggestions = optimizationSuggestions(sc)

	// Sequential write phase. Persistence is best-effort by contract.
	if err := e.store.StoreVoiceInput(ctx, input); err != nil {
		log.Printf("⚠️  [SYNTHESIS] Voice input not persisted: %v", err)
	}
	if err := e.store.StoreSynthesis(ctx, sc); err != nil {
		log.Printf("⚠️  [SYNTHESIS] Synthesis record not persisted: %v", err)
	}
	if e.events != nil {
		e.events.PublishSynthesisCompleted(ctx, sc)
	}

	if e.metrics != nil {
		e.metrics.SynthesisLatency.Observe(time.Since(start).Seconds())
		e.metrics.SynthesisQuality.Set(sc.QualityScore)
	}
	log.Printf("✅ [SYNTHESIS] Synthesized context for %s: quality=%.2f coherence=%.2f intent=%s",
		userID, sc.QualityScore, sc.CoherenceScore, input.Intent)
	return sc
}

// degradedContext is the documented fallback: a minimal author context with
// empty layers, still safe for the generation pipeline to consume.
func (e *ContextSynthesisEngine) degradedContext(ctx context.Context, userID string, input *models.VoiceInput) *models.SynthesizedContext {
	if e.metrics != nil {
		e.metrics.SynthesisFailures.Inc()
	}
	sessionID := ""
	if input != nil {
		sessionID = input.SessionID
	}
	weights := models.DefaultSynthesisWeights()
	return &models.SynthesizedContext{
		SynthesisID: uuid.New().String(),
		SessionID:   sessionID,
		UserID:      userID,
		Author:      models.NewAuthorContext(userID),
		Weights:     weights,
		CreatedAt:   time.Now().UTC(),
	}
}

// newUserSessionThreshold and experiencedSessionThreshold pick which
// experience multipliers apply.
const (
	newUserSessionThreshold     = 5
	experiencedSessionThreshold = 20
)

// ComputeSynthesisWeights looks up the base weights for an intent, applies
// the experience multipliers and normalizes so the four weights sum to 1.0.
func ComputeSynthesisWeights(intent models.Intent, totalSessions int) models.ContextSynthesisWeights {
	var w models.ContextSynthesisWeights
	switch intent {
	case models.IntentMarketOptimize:
		w = models.ContextSynthesisWeights{AuthorWeight: 0.3, MarketWeight: 0.4, CreativeWeight: 0.1, PublishingWeight: 0.2}
	case models.IntentCreateBook:
		w = models.ContextSynthesisWeights{AuthorWeight: 0.35, MarketWeight: 0.15, CreativeWeight: 0.4, PublishingWeight: 0.1}
	case models.IntentPublishBook:
		w = models.ContextSynthesisWeights{AuthorWeight: 0.2, MarketWeight: 0.3, CreativeWeight: 0.1, PublishingWeight: 0.4}
	default:
		w = models.DefaultSynthesisWeights()
	}

	if totalSessions < newUserSessionThreshold {
		// New authors: their own signal and creative guidance matter most.
		w.AuthorWeight *= 1.2
		w.CreativeWeight *= 1.1
	} else if totalSessions > experiencedSessionThreshold {
		// Established authors get more commercial steering.
		w.MarketWeight *= 1.1
		w.PublishingWeight *= 1.1
	}

	w.Normalize()
	return w
}

// qualityScore is the weight-weighted sum of per-layer completeness, each
// layer a sum of graded checks capped at 1.0.
func qualityScore(sc *models.SynthesizedContext) float64 {
	q := sc.Weights.AuthorWeight*authorCompleteness(sc.Author) +
		sc.Weights.MarketWeight*marketCompleteness(sc.Market) +
		sc.Weights.CreativeWeight*creativeCompleteness(sc.Creative) +
		sc.Weights.PublishingWeight*publishingCompleteness(sc.Publishing)
	return models.Clamp01(q)
}

func authorCompleteness(a *models.AuthorContext) float64 {
	if a == nil {
		return 0
	}
	score := 0.0
	if a.WritingStyle.Tone != "" && a.WritingStyle.Tone != "neutral" {
		score += 0.2
	}
	if len(a.WritingStyle.GenrePreferences) > 0 {
		score += 0.2
	}
	if len(a.WritingStyle.FavoriteThemes) > 0 {
		score += 0.15
	}
	if len(a.Preferences.PublishingGoals) > 0 {
		score += 0.15
	}
	if a.Preferences.TargetAudience != "" && a.Preferences.TargetAudience != "general" {
		score += 0.1
	}
	if a.TotalSessions > 1 {
		score += 0.1
	}
	if len(a.PastWorks) > 0 {
		score += 0.1
	}
	return models.Clamp01(score)
}

func marketCompleteness(m models.MarketContext) float64 {
	score := 0.0
	if len(m.TrendingCategories) > 0 {
		score += 0.4
	}
	if len(m.TrendingKeywords) > 0 {
		score += 0.3
	}
	if m.CompetitionLevel != "" {
		score += 0.15
	}
	if len(m.SeasonalFactors) > 0 {
		score += 0.15
	}
	return models.Clamp01(score)
}

func creativeCompleteness(c models.CreativeContext) float64 {
	score := 0.0
	if len(c.Patterns) > 0 {
		score += 0.5
	}
	if len(c.GenreConventions) > 0 {
		score += 0.25
	}
	if len(c.ThemeSuggestions) > 0 {
		score += 0.25
	}
	return models.Clamp01(score)
}

func publishingCompleteness(p models.PublishingContext) float64 {
	score := 0.0
	if len(p.TargetFormats) > 0 {
		score += 0.4
	}
	if len(p.SEOKeywords) > 0 {
		score += 0.3
	}
	if len(p.CategoryGuidance) > 0 {
		score += 0.3
	}
	return models.Clamp01(score)
}

// coherenceScore is the unweighted mean of three pairwise alignment checks,
// each starting from a 0.5 base.
func coherenceScore(sc *models.SynthesizedContext) float64 {
	return models.Clamp01((authorCreativeAlignment(sc.Author, sc.Creative) +
		marketPublishingAlignment(sc.Market, sc.Publishing) +
		authorMarketAlignment(sc.Author, sc.Market)) / 3.0)
}

func authorCreativeAlignment(a *models.AuthorContext, c models.CreativeContext) float64 {
	score := 0.5
	if a == nil || len(c.Patterns) == 0 {
		return score
	}
	genreMatch := false
	for _, genre := range a.WritingStyle.GenrePreferences {
		for _, p := range c.Patterns {
			if p.Genre == genre {
				genreMatch = true
			}
		}
	}
	if genreMatch {
		score += 0.25
	}
	if a.WritingStyle.Tone == c.Patterns[0].Tone {
		score += 0.25
	}
	return models.Clamp01(score)
}

func marketPublishingAlignment(m models.MarketContext, p models.PublishingContext) float64 {
	score := 0.5
	if len(m.TrendingCategories) > 0 {
		score += 0.25
	}
	if len(p.TargetFormats) >= 2 {
		score += 0.25
	}
	return models.Clamp01(score)
}

func authorMarketAlignment(a *models.AuthorContext, m models.MarketContext) float64 {
	score := 0.5
	if a == nil {
		return score
	}
	for _, goal := range a.Preferences.PublishingGoals {
		if (goal == "bestseller" || goal == "passive_income") && len(m.TrendingCategories) > 0 {
			score += 0.25
			break
		}
	}
	for _, genre := range a.WritingStyle.GenrePreferences {
		for _, trend := range m.TrendingCategories {
			if strings.Contains(trend, genre) {
				score += 0.25
				return models.Clamp01(score)
			}
		}
	}
	return models.Clamp01(score)
}

// optimizationSuggestions fires threshold rules in priority order, emitting
// at most five suggestions.
func optimizationSuggestions(sc *models.SynthesizedContext) []string {
	var suggestions []string
	add := func(s string) bool {
		if len(suggestions) >= maxOptimizationSuggestions {
			return false
		}
		suggestions = append(suggestions, s)
		return true
	}

	if sc.QualityScore < 0.7 {
		add("Share more about your style, genres and goals so the context has more to work with")
	}
	if sc.CoherenceScore < 0.6 {
		add("Your creative direction and market signals are pulling apart; consider picking a primary genre")
	}
	if sc.Author != nil && sc.Author.TotalSessions < 3 {
		add("Keep talking through ideas — the author profile sharpens with every session")
	}
	if len(sc.Market.TrendingCategories) == 0 {
		add("Market trends are unavailable; synthesis is steering on author signal alone")
	}
	if len(sc.Creative.Patterns) == 0 {
		add("No creative patterns matched; naming a genre will unlock archetype guidance")
	}
	if len(sc.Publishing.TargetFormats) < 2 {
		add("Consider targeting more than one publishing format")
	}
	return suggestions
}
