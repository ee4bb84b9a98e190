package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lol-stats/lol_stats/internal/logging"
)

func TestRecordAttemptStampsTime(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, logging.Discard())
	ctx := context.Background()

	before := time.Now().UTC()
	err := rec.RecordAttempt(ctx, Attempt{
		UsernameAttempt: "teemo",
		PhoneAttempt:    "+79999999999",
		IPAddress:       "10.0.0.1",
		Success:         false,
		ErrorMessage:    "Неверная капча! Правильный ответ всегда 42.",
	})
	require.NoError(t, err)

	attempts, err := store.RecentAttempts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.False(t, attempts[0].AttemptDate.Before(before))
	require.False(t, attempts[0].Success)
}

func TestRecordEvent(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, logging.Discard())
	ctx := context.Background()

	err := rec.RecordEvent(ctx, "feedback", "Получен отзыв: 'норм' с рейтингом 5", "10.0.0.2", "")
	require.NoError(t, err)

	events, err := rec.Events(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "feedback", events[0].EventType)
	require.Equal(t, "10.0.0.2", events[0].IPAddress)
	require.Empty(t, events[0].UserID)
}

func TestStatsTalliesWindow(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, logging.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, rec.RecordAttempt(ctx, Attempt{UsernameAttempt: "ok", Success: true}))
	}
	require.NoError(t, rec.RecordAttempt(ctx, Attempt{UsernameAttempt: "bad", Success: false, ErrorMessage: "x"}))

	stats, attempts, err := rec.Stats(ctx, 50)
	require.NoError(t, err)
	require.Equal(t, AttemptStats{Total: 4, Successful: 3, Failed: 1}, stats)
	// Newest first.
	require.Equal(t, "bad", attempts[0].UsernameAttempt)
}

func TestStatsRespectsWindow(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, logging.Discard())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, rec.RecordAttempt(ctx, Attempt{UsernameAttempt: "u", Success: true}))
	}

	stats, attempts, err := rec.Stats(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 5, stats.Total)
	require.Len(t, attempts, 5)
}

type brokenStore struct{ Store }

func (brokenStore) InsertAttempt(context.Context, Attempt) error { return errors.New("down") }
func (brokenStore) InsertEvent(context.Context, Event) error     { return errors.New("down") }

func TestRecorderPropagatesStoreFailures(t *testing.T) {
	rec := NewRecorder(brokenStore{NewMemoryStore()}, logging.Discard())
	ctx := context.Background()

	require.Error(t, rec.RecordAttempt(ctx, Attempt{UsernameAttempt: "u"}))
	require.Error(t, rec.RecordEvent(ctx, "feedback", "text", "ip", ""))
}
