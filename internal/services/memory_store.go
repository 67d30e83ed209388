package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"vibecode/internal/database"
	"vibecode/internal/models"

	"github.com/google/uuid"
)

// Timestamps are stored as RFC3339Nano text so rows stay readable and
// comparisons sort lexicographically.
const storeTimeLayout = time.RFC3339Nano

// ContextMemoryStore is the durable persistence layer for author profiles,
// sessions, voice inputs, synthesis history and success metrics. Complex
// values are serialized to JSON columns; scalar fields used by indexed
// queries are duplicated as columns.
type ContextMemoryStore struct {
	db      *database.DB
	metrics *Metrics
}

// NewContextMemoryStore creates a memory store on the given database.
func NewContextMemoryStore(db *database.DB) *ContextMemoryStore {
	return &ContextMemoryStore{db: db}
}

// SetMetrics attaches the optional Prometheus metrics sink.
func (s *ContextMemoryStore) SetMetrics(m *Metrics) {
	s.metrics = m
}

func (s *ContextMemoryStore) fail(op string, err error) error {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
	log.Printf("❌ [MEMORY-STORE] %s failed: %v", op, err)
	return fmt.Errorf("%s: %w", op, err)
}

// StoreAuthorContext upserts the author context row. Last write wins; there
// is no optimistic concurrency check.
func (s *ContextMemoryStore) StoreAuthorContext(ctx context.Context, ac *models.AuthorContext) error {
	if ac == nil || ac.UserID == "" {
		return s.fail("store_author_context", fmt.Errorf("missing user ID"))
	}

	data, err := json.Marshal(ac)
	if err != nil {
		return s.fail("store_author_context", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO author_contexts (user_id, context_data, last_updated, total_sessions, total_words_created)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			context_data = excluded.context_data,
			last_updated = excluded.last_updated,
			total_sessions = excluded.total_sessions,
			total_words_created = excluded.total_words_created
	`, ac.UserID, string(data), time.Now().UTC().Format(storeTimeLayout),
		ac.TotalSessions, ac.TotalWordsCreated)
	if err != nil {
		return s.fail("store_author_context", err)
	}
	return nil
}

// GetAuthorContext loads the author context, or (nil, nil) for first contact.
func (s *ContextMemoryStore) GetAuthorContext(ctx context.Context, userID string) (*models.AuthorContext, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT context_data FROM author_contexts WHERE user_id = ?`, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get_author_context", err)
	}

	var ac models.AuthorContext
	if err := json.Unmarshal([]byte(data), &ac); err != nil {
		return nil, s.fail("get_author_context", err)
	}
	return &ac, nil
}

// StoreVibecodeSession upserts a session record.
func (s *ContextMemoryStore) StoreVibecodeSession(ctx context.Context, sess *models.VibecodeSession) error {
	if sess == nil || sess.SessionID == "" {
		return s.fail("store_session", fmt.Errorf("missing session ID"))
	}
	if !models.ValidSessionStatus(sess.Status) {
		return s.fail("store_session", fmt.Errorf("unknown session status %q", sess.Status))
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return s.fail("store_session", err)
	}

	var endTime interface{}
	if sess.EndTime != nil {
		endTime = sess.EndTime.UTC().Format(storeTimeLayout)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vibecode_sessions (session_id, user_id, start_time, end_time, session_data, session_status, total_input_words)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			end_time = excluded.end_time,
			session_data = excluded.session_data,
			session_status = excluded.session_status,
			total_input_words = excluded.total_input_words
	`, sess.SessionID, sess.UserID, sess.StartTime.UTC().Format(storeTimeLayout),
		endTime, string(data), string(sess.Status), sess.TotalInputWords)
	if err != nil {
		return s.fail("store_session", err)
	}
	return nil
}

// GetVibecodeSession loads a session, or (nil, nil) on miss.
func (s *ContextMemoryStore) GetVibecodeSession(ctx context.Context, sessionID string) (*models.VibecodeSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT session_data FROM vibecode_sessions WHERE session_id = ?`, sessionID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get_session", err)
	}

	var sess models.VibecodeSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, s.fail("get_session", err)
	}
	return &sess, nil
}

// StoreVoiceInput appends a processed utterance.
func (s *ContextMemoryStore) StoreVoiceInput(ctx context.Context, input *models.VoiceInput) error {
	if input == nil || input.SessionID == "" {
		return s.fail("store_voice_input", fmt.Errorf("missing session ID"))
	}

	id := input.InputID
	if id == "" {
		id = uuid.New().String()
	}

	data, err := json.Marshal(input)
	if err != nil {
		return s.fail("store_voice_input", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO voice_inputs (input_id, session_id, user_id, input_data, timestamp, confidence, intent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, input.SessionID, input.UserID, string(data),
		input.Timestamp.UTC().Format(storeTimeLayout), input.Confidence, string(input.Intent))
	if err != nil {
		return s.fail("store_voice_input", err)
	}
	return nil
}

// GetRecentSessions returns per-session summaries for the last N days, newest
// first, with derived words-per-minute. Read-only; stale reads relative to a
// concurrent write are acceptable.
func (s *ContextMemoryStore) GetRecentSessions(ctx context.Context, userID string, days int) ([]models.SessionSummary, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(storeTimeLayout)

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, start_time, end_time, session_data, session_status, total_input_words
		FROM vibecode_sessions
		WHERE user_id = ? AND start_time >= ?
		ORDER BY start_time DESC
	`, userID, cutoff)
	if err != nil {
		return nil, s.fail("get_recent_sessions", err)
	}
	defer rows.Close()

	var summaries []models.SessionSummary
	for rows.Next() {
		var (
			summary   models.SessionSummary
			startRaw  string
			endRaw    sql.NullString
			dataRaw   string
			statusRaw string
		)
		if err := rows.Scan(&summary.SessionID, &startRaw, &endRaw, &dataRaw, &statusRaw, &summary.TotalWords); err != nil {
			return nil, s.fail("get_recent_sessions", err)
		}
		summary.Status = models.SessionStatus(statusRaw)
		summary.StartTime, _ = time.Parse(storeTimeLayout, startRaw)

		var sess models.VibecodeSession
		if err := json.Unmarshal([]byte(dataRaw), &sess); err == nil {
			summary.Mood = sess.Mood
		}

		if endRaw.Valid {
			if end, err := time.Parse(storeTimeLayout, endRaw.String); err == nil {
				minutes := end.Sub(summary.StartTime).Minutes()
				if minutes > 0 {
					summary.WordsPerMinute = float64(summary.TotalWords) / minutes
				}
			}
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("get_recent_sessions", err)
	}
	return summaries, nil
}

// StoreSynthesis records one synthesis result in the history table.
func (s *ContextMemoryStore) StoreSynthesis(ctx context.Context, sc *models.SynthesizedContext) error {
	if sc == nil || sc.SessionID == "" {
		return s.fail("store_synthesis", fmt.Errorf("missing session ID"))
	}

	id := sc.SynthesisID
	if id == "" {
		id = uuid.New().String()
	}

	data, err := json.Marshal(sc)
	if err != nil {
		return s.fail("store_synthesis", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO context_synthesis_history (synthesis_id, session_id, user_id, synthesis_data, quality_score, coherence_score, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, sc.SessionID, sc.UserID, string(data), sc.QualityScore, sc.CoherenceScore,
		time.Now().UTC().Format(storeTimeLayout))
	if err != nil {
		return s.fail("store_synthesis", err)
	}
	return nil
}

// StoreSuccessMetric records an arbitrary success metric payload.
func (s *ContextMemoryStore) StoreSuccessMetric(ctx context.Context, userID, sessionID, metricType string, payload interface{}) error {
	if userID == "" || metricType == "" {
		return s.fail("store_success_metric", fmt.Errorf("missing user ID or metric type"))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return s.fail("store_success_metric", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO success_metrics (metric_id, user_id, session_id, metric_type, metric_data, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), userID, sessionID, metricType, string(data),
		time.Now().UTC().Format(storeTimeLayout))
	if err != nil {
		return s.fail("store_success_metric", err)
	}
	return nil
}

// GetUserStatistics aggregates activity counters for one user.
func (s *ContextMemoryStore) GetUserStatistics(ctx context.Context, userID string) (map[string]interface{}, error) {
	stats := map[string]interface{}{"user_id": userID}

	var sessions, words int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_input_words), 0)
		FROM vibecode_sessions WHERE user_id = ?
	`, userID).Scan(&sessions, &words)
	if err != nil {
		return nil, s.fail("get_user_statistics", err)
	}
	stats["total_sessions"] = sessions
	stats["total_input_words"] = words

	var inputs int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM voice_inputs WHERE user_id = ?`, userID).Scan(&inputs); err != nil {
		return nil, s.fail("get_user_statistics", err)
	}
	stats["total_voice_inputs"] = inputs

	var syntheses int
	var avgQuality, avgCoherence sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(quality_score), AVG(coherence_score)
		FROM context_synthesis_history WHERE user_id = ?
	`, userID).Scan(&syntheses, &avgQuality, &avgCoherence)
	if err != nil {
		return nil, s.fail("get_user_statistics", err)
	}
	stats["total_syntheses"] = syntheses
	stats["avg_quality_score"] = avgQuality.Float64
	stats["avg_coherence_score"] = avgCoherence.Float64

	return stats, nil
}

// CleanupStats reports what one retention pass removed.
type CleanupStats struct {
	VoiceInputsDeleted int `json:"voice_inputs_deleted"`
	SynthesesDeleted   int `json:"syntheses_deleted"`
	SessionsDeleted    int `json:"sessions_deleted"`
	MetricsDeleted     int `json:"metrics_deleted"`
}

// retainedSessionsPerUser is the retention floor: cleanup never drops a user
// below this many sessions, regardless of age.
const retainedSessionsPerUser = 10

// CleanupOldData deletes voice inputs and synthesis history older than the
// cutoff unconditionally, and sessions older than the cutoff only when they
// are not among the user's most recently started sessions.
func (s *ContextMemoryStore) CleanupOldData(ctx context.Context, daysToKeep int) (CleanupStats, error) {
	var stats CleanupStats
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep).Format(storeTimeLayout)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM voice_inputs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return stats, s.fail("cleanup_old_data", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.VoiceInputsDeleted = int(n)
	}

	res, err = s.db.ExecContext(ctx,
		`DELETE FROM context_synthesis_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return stats, s.fail("cleanup_old_data", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.SynthesesDeleted = int(n)
	}

	res, err = s.db.ExecContext(ctx, `
		DELETE FROM vibecode_sessions
		WHERE start_time < ?
		  AND session_id NOT IN (
			SELECT session_id FROM vibecode_sessions recent
			WHERE recent.user_id = vibecode_sessions.user_id
			ORDER BY recent.start_time DESC
			LIMIT ?
		  )
	`, cutoff, retainedSessionsPerUser)
	if err != nil {
		return stats, s.fail("cleanup_old_data", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.SessionsDeleted = int(n)
	}

	res, err = s.db.ExecContext(ctx,
		`DELETE FROM success_metrics WHERE timestamp < ?`, cutoff)
	if err != nil {
		return stats, s.fail("cleanup_old_data", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.MetricsDeleted = int(n)
	}

	log.Printf("🗑️  [MEMORY-STORE] Cleanup removed %d inputs, %d syntheses, %d sessions, %d metrics (cutoff %d days)",
		stats.VoiceInputsDeleted, stats.SynthesesDeleted, stats.SessionsDeleted, stats.MetricsDeleted, daysToKeep)
	return stats, nil
}
