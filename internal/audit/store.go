package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists attempt and event rows.
type Store interface {
	InsertAttempt(ctx context.Context, attempt Attempt) error
	InsertEvent(ctx context.Context, event Event) error
	RecentAttempts(ctx context.Context, limit int) ([]Attempt, error)
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed audit store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertAttempt appends one registration attempt row.
func (s *PostgresStore) InsertAttempt(ctx context.Context, attempt Attempt) error {
	var errMsg *string
	if attempt.ErrorMessage != "" {
		errMsg = &attempt.ErrorMessage
	}
	_, err := s.db.Exec(ctx, `INSERT INTO registration_attempts
        (id, username_attempt, phone_attempt, ip_address, attempt_date, success, error_message)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), attempt.UsernameAttempt, attempt.PhoneAttempt, attempt.IPAddress,
		attempt.AttemptDate.UTC(), attempt.Success, errMsg)
	return err
}

// InsertEvent appends one system log row.
func (s *PostgresStore) InsertEvent(ctx context.Context, event Event) error {
	var userID *uuid.UUID
	if event.UserID != "" {
		parsed, err := uuid.Parse(event.UserID)
		if err != nil {
			return err
		}
		userID = &parsed
	}
	_, err := s.db.Exec(ctx, `INSERT INTO system_logs
        (id, event_type, user_id, description, timestamp, ip_address)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), event.EventType, userID, event.Description, event.Timestamp.UTC(), event.IPAddress)
	return err
}

// RecentAttempts returns the newest attempts, most recent first.
func (s *PostgresStore) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	rows, err := s.db.Query(ctx, `SELECT id, username_attempt, phone_attempt, ip_address,
        attempt_date, success, error_message
        FROM registration_attempts ORDER BY attempt_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			id      uuid.UUID
			at      time.Time
			errMsg  *string
			attempt Attempt
		)
		if err := rows.Scan(&id, &attempt.UsernameAttempt, &attempt.PhoneAttempt,
			&attempt.IPAddress, &at, &attempt.Success, &errMsg); err != nil {
			return nil, err
		}
		attempt.ID = id.String()
		attempt.AttemptDate = at.UTC()
		if errMsg != nil {
			attempt.ErrorMessage = *errMsg
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// RecentEvents returns the newest system log entries, most recent first.
func (s *PostgresStore) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.Query(ctx, `SELECT id, event_type, user_id, description, timestamp, ip_address
        FROM system_logs ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			id     uuid.UUID
			userID *uuid.UUID
			ts     time.Time
			event  Event
		)
		if err := rows.Scan(&id, &event.EventType, &userID, &event.Description, &ts, &event.IPAddress); err != nil {
			return nil, err
		}
		event.ID = id.String()
		event.Timestamp = ts.UTC()
		if userID != nil {
			event.UserID = userID.String()
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
