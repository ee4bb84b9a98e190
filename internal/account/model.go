package account

import "time"

// User represents a registered summoner account.
type User struct {
	ID               string
	Username         string
	PhoneNumber      string
	PasswordHash     []byte
	RaceClass        string
	RegistrationDate time.Time
	IsActive         bool
	FailedAttempts   int
	LastLogin        *time.Time
}

// Submission is one registration form submission, valid or not.
type Submission struct {
	Username        string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	RaceClass       string
	AbsurdAnswer    string
	CaptchaAnswer   string
	ClientIP        string
}

// Credentials identify a login attempt.
type Credentials struct {
	Username string
	Password string
}
