package services

import (
	"context"
	"log"
	"time"

	"vibecode/internal/models"

	"github.com/patrickmn/go-cache"
)

// marketTTL is how long a market snapshot stays fresh.
const marketTTL = 6 * time.Hour

// MarketAnalyzer produces the market-layer snapshot. The real signal comes
// from external trend feeds; this implementation serves a curated snapshot
// refreshed on the TTL, which is the documented boundary behavior. A stale
// copy is kept indefinitely as the degrade fallback for layer timeouts.
type MarketAnalyzer struct {
	cache *cache.Cache
}

// NewMarketAnalyzer creates the analyzer with its snapshot cache.
func NewMarketAnalyzer() *MarketAnalyzer {
	return &MarketAnalyzer{
		cache: cache.New(marketTTL, 30*time.Minute),
	}
}

const (
	marketKey      = "market:snapshot"
	marketStaleKey = "market:snapshot:stale"
)

// GetContext returns the current market snapshot, rebuilding it when the TTL
// has lapsed.
func (m *MarketAnalyzer) GetContext(ctx context.Context) models.MarketContext {
	if cached, ok := m.cache.Get(marketKey); ok {
		return cached.(models.MarketContext)
	}

	snapshot := m.buildSnapshot(time.Now().UTC())
	m.cache.Set(marketKey, snapshot, cache.DefaultExpiration)
	m.cache.Set(marketStaleKey, snapshot, cache.NoExpiration)
	log.Printf("📈 [MARKET] Refreshed market snapshot (%d categories)", len(snapshot.TrendingCategories))
	return snapshot
}

// Stale returns the last snapshot regardless of age. Used when a layer fetch
// times out; an empty context is returned if nothing was ever built.
func (m *MarketAnalyzer) Stale() models.MarketContext {
	if cached, ok := m.cache.Get(marketStaleKey); ok {
		return cached.(models.MarketContext)
	}
	return models.MarketContext{}
}

// buildSnapshot assembles the curated snapshot with seasonal adjustments.
func (m *MarketAnalyzer) buildSnapshot(now time.Time) models.MarketContext {
	snapshot := models.MarketContext{
		TrendingCategories: []string{
			"cozy_mystery", "romantasy", "self_help", "litrpg", "thriller",
		},
		TrendingKeywords: []string{
			"small town", "found family", "slow burn", "enemies to lovers",
			"amateur detective",
		},
		CompetitionLevel: "high",
		FetchedAt:        now,
	}

	switch now.Month() {
	case time.October:
		snapshot.SeasonalFactors = []string{"halloween", "horror_peak"}
	case time.November, time.December:
		snapshot.SeasonalFactors = []string{"holiday_gifting", "cozy_reads"}
	case time.January:
		snapshot.SeasonalFactors = []string{"new_year_self_improvement"}
	case time.June, time.July:
		snapshot.SeasonalFactors = []string{"beach_reads"}
	}
	return snapshot
}
