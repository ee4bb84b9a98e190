// Package audit keeps the append-only trail of registration attempts and
// system events. Writes here are part of the request contract: a submission
// whose attempt row cannot be persisted has not completed.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Recorder is the append-only writer over a Store. It never swallows a
// persistence failure.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// RecordAttempt writes one registration attempt row, stamped at call time if
// the caller left AttemptDate zero.
func (r *Recorder) RecordAttempt(ctx context.Context, attempt Attempt) error {
	if attempt.AttemptDate.IsZero() {
		attempt.AttemptDate = time.Now().UTC()
	}
	if err := r.store.InsertAttempt(ctx, attempt); err != nil {
		r.logger.Error("attempt record lost",
			slog.String("username", attempt.UsernameAttempt),
			slog.Any("error", err))
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// RecordEvent writes one system log row. UserID may be empty for events not
// tied to an account.
func (r *Recorder) RecordEvent(ctx context.Context, eventType, description, ipAddress, userID string) error {
	event := Event{
		EventType:   eventType,
		UserID:      userID,
		Description: description,
		Timestamp:   time.Now().UTC(),
		IPAddress:   ipAddress,
	}
	if err := r.store.InsertEvent(ctx, event); err != nil {
		r.logger.Error("event record lost",
			slog.String("event_type", eventType),
			slog.Any("error", err))
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Stats tallies outcomes over the newest window of attempts, mirroring the
// reporting endpoint's 50-row view.
func (r *Recorder) Stats(ctx context.Context, window int) (AttemptStats, []Attempt, error) {
	attempts, err := r.store.RecentAttempts(ctx, window)
	if err != nil {
		return AttemptStats{}, nil, fmt.Errorf("recent attempts: %w", err)
	}
	stats := AttemptStats{Total: len(attempts)}
	for _, a := range attempts {
		if a.Success {
			stats.Successful++
		} else {
			stats.Failed++
		}
	}
	return stats, attempts, nil
}

// Events returns the newest system log entries.
func (r *Recorder) Events(ctx context.Context, limit int) ([]Event, error) {
	return r.store.RecentEvents(ctx, limit)
}
