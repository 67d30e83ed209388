package services

import (
	"context"
	"time"

	"vibecode/internal/models"

	"github.com/patrickmn/go-cache"
)

// publishingTTL is how long platform guidance stays cached.
const publishingTTL = 24 * time.Hour

// PublishingEngine serves the publishing-layer snapshot: target formats,
// SEO keywords and category guidance the way the platform currently rewards
// them. Like the other layers the data is curated and TTL-cached, with a
// stale copy retained for the degrade path.
type PublishingEngine struct {
	cache *cache.Cache
}

// NewPublishingEngine creates the engine.
func NewPublishingEngine() *PublishingEngine {
	return &PublishingEngine{
		cache: cache.New(publishingTTL, time.Hour),
	}
}

const (
	publishingKey      = "publishing:snapshot"
	publishingStaleKey = "publishing:snapshot:stale"
)

// GetContext returns the current publishing snapshot. The intent selects how
// aggressive the format guidance is: publishing intents get the full format
// matrix, everything else gets the ebook-first defaults.
func (p *PublishingEngine) GetContext(ctx context.Context, input *models.VoiceInput) models.PublishingContext {
	key := publishingKey
	publishingIntent := input != nil &&
		(input.Intent == models.IntentPublishBook || input.Intent == models.IntentMarketOptimize)
	if publishingIntent {
		key += ":full"
	}

	if cached, ok := p.cache.Get(key); ok {
		return cached.(models.PublishingContext)
	}

	snapshot := models.PublishingContext{
		TargetFormats:   []string{"ebook", "paperback"},
		SEOKeywords:     []string{"page turner", "binge worthy", "book series"},
		PricingGuidance: "ebook 2.99-4.99, paperback priced from page count",
		CategoryGuidance: []string{
			"pick two niche categories over one broad one",
			"rotate keywords against search volume monthly",
		},
		FetchedAt: time.Now().UTC(),
	}
	if publishingIntent {
		snapshot.TargetFormats = []string{"ebook", "paperback", "hardcover", "large_print"}
	}

	p.cache.Set(key, snapshot, cache.DefaultExpiration)
	p.cache.Set(publishingStaleKey, snapshot, cache.NoExpiration)
	return snapshot
}

// Stale returns the last snapshot regardless of age.
func (p *PublishingEngine) Stale() models.PublishingContext {
	if cached, ok := p.cache.Get(publishingStaleKey); ok {
		return cached.(models.PublishingContext)
	}
	return models.PublishingContext{}
}
