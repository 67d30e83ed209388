package jobs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vibecode/internal/database"
	"vibecode/internal/models"
	"vibecode/internal/services"
)

type recordingJob struct {
	name string
	ran  chan struct{}
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(ctx context.Context) error {
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return j.err
}

func TestScheduler_RegisterAndRunNow(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	defer s.Stop()

	job := &recordingJob{name: "probe", ran: make(chan struct{}, 1)}
	if err := s.Register("0 3 * * *", job); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	s.Start()

	if err := s.RunNow("probe"); err != nil {
		t.Fatalf("RunNow failed: %v", err)
	}
	select {
	case <-job.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("Job did not run within 5s of RunNow")
	}
}

func TestScheduler_RegisterBadCron(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	defer s.Stop()

	job := &recordingJob{name: "bad", ran: make(chan struct{}, 1)}
	if err := s.Register("not a cron expression", job); err == nil {
		t.Error("Expected error for malformed cron expression")
	}
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	defer s.Stop()

	if err := s.RunNow("nope"); err == nil {
		t.Error("Expected error for unregistered job")
	}
}

func TestRetentionCleanupJob(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "jobs_test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	store := services.NewContextMemoryStore(db)
	ctx := context.Background()

	old := &models.VoiceInput{
		InputID: "old", SessionID: "s1", UserID: "user-1",
		Text: "hello", Intent: models.IntentExploreIdeas,
		Timestamp: time.Now().UTC().AddDate(0, 0, -100),
	}
	if err := store.StoreVoiceInput(ctx, old); err != nil {
		t.Fatal(err)
	}

	job := NewRetentionCleanupJob(store, 90)
	if job.Name() != "retention_cleanup" {
		t.Errorf("Name = %s", job.Name())
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The aged input is gone; a second run is a no-op.
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
}

func TestRetentionCleanupJob_StoreFailure(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "jobs_fail_test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	store := services.NewContextMemoryStore(db)
	db.Close()

	job := NewRetentionCleanupJob(store, 90)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Expected error from closed store")
	}
}
