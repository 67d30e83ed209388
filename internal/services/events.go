package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"vibecode/internal/models"

	"github.com/redis/go-redis/v9"
)

// synthesisChannel is the pub/sub channel downstream generation workers
// subscribe to.
const synthesisChannel = "vibecode:synthesis"

// EventPublisher pushes synthesis-completed events to Redis. It is optional:
// when no Redis URL is configured the engine runs without it and nothing is
// published.
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher connects to Redis and verifies the connection. Returns
// an error when the URL is unparseable or the server is unreachable.
func NewEventPublisher(redisURL string) (*EventPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connection established")
	return &EventPublisher{client: client}, nil
}

// synthesisEvent is the wire form of a completed synthesis. Layers are
// reduced to the summary projection to keep the payload small.
type synthesisEvent struct {
	SynthesisID    string                `json:"synthesis_id"`
	SessionID      string                `json:"session_id"`
	UserID         string                `json:"user_id"`
	QualityScore   float64               `json:"quality_score"`
	CoherenceScore float64               `json:"coherence_score"`
	Summary        models.ContextSummary `json:"summary"`
	CreatedAt      time.Time             `json:"created_at"`
}

// PublishSynthesisCompleted is fire-and-forget: failures are logged, never
// surfaced to the synthesis caller.
func (p *EventPublisher) PublishSynthesisCompleted(ctx context.Context, sc *models.SynthesizedContext) {
	if p == nil || p.client == nil || sc == nil {
		return
	}

	payload, err := json.Marshal(synthesisEvent{
		SynthesisID:    sc.SynthesisID,
		SessionID:      sc.SessionID,
		UserID:         sc.UserID,
		QualityScore:   sc.QualityScore,
		CoherenceScore: sc.CoherenceScore,
		Summary:        sc.GetPrimaryContextSummary(),
		CreatedAt:      sc.CreatedAt,
	})
	if err != nil {
		log.Printf("⚠️  [EVENTS] Failed to marshal synthesis event: %v", err)
		return
	}

	if err := p.client.Publish(ctx, synthesisChannel, payload).Err(); err != nil {
		log.Printf("⚠️  [EVENTS] Failed to publish synthesis event: %v", err)
	}
}

// Close releases the Redis connection.
func (p *EventPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
