package audit

import "time"

// Attempt is one registration submission outcome. Rows are append-only and
// deliberately not linked to users: the trail survives whatever happens to
// the account afterwards.
type Attempt struct {
	ID              string
	UsernameAttempt string
	PhoneAttempt    string
	IPAddress       string
	AttemptDate     time.Time
	Success         bool
	ErrorMessage    string
}

// Event is a free-form system log entry (feedback submissions, errors).
type Event struct {
	ID          string
	EventType   string
	UserID      string
	Description string
	Timestamp   time.Time
	IPAddress   string
}

// AttemptStats summarises the most recent registration attempts.
type AttemptStats struct {
	Total      int
	Successful int
	Failed     int
}
