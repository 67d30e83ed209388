package jobs

import (
	"context"
	"log"
	"time"

	"vibecode/internal/services"
)

// RetentionCleanupJob deletes synthesis history, voice inputs and completed
// sessions older than the retention window while keeping each user's most
// recent sessions regardless of age.
type RetentionCleanupJob struct {
	store         *services.ContextMemoryStore
	retentionDays int
}

// NewRetentionCleanupJob creates a new retention cleanup job.
func NewRetentionCleanupJob(store *services.ContextMemoryStore, retentionDays int) *RetentionCleanupJob {
	return &RetentionCleanupJob{
		store:         store,
		retentionDays: retentionDays,
	}
}

// Name implements Job.
func (j *RetentionCleanupJob) Name() string { return "retention_cleanup" }

// Run executes the retention cleanup across all users.
func (j *RetentionCleanupJob) Run(ctx context.Context) error {
	log.Printf("🧹 [RETENTION] Starting cleanup (retention=%d days)...", j.retentionDays)
	startTime := time.Now()

	stats, err := j.store.CleanupOldData(ctx, j.retentionDays)
	if err != nil {
		log.Printf("❌ [RETENTION] Cleanup failed: %v", err)
		return err
	}

	log.Printf("✅ [RETENTION] Cleanup complete in %v: sessions=%d voice_inputs=%d syntheses=%d metrics=%d",
		time.Since(startTime), stats.SessionsDeleted, stats.VoiceInputsDeleted,
		stats.SynthesesDeleted, stats.MetricsDeleted)
	return nil
}
