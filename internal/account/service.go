package account

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lol-stats/lol_stats/internal/audit"
	"github.com/lol-stats/lol_stats/internal/config"
)

// Rules holds the registration validation knobs. Chance draws a uniform value
// in [0,1) for the arbitrary-rejection gate; tests pin it to force outcomes.
type Rules struct {
	MinUsernameLen       int
	PhonePrefix          string
	PhoneLength          int
	CaptchaAnswer        string
	RejectionProbability float64
	BcryptCost           int
	Chance               func() float64
}

// NewRules derives validation rules from the application configuration.
func NewRules(cfg config.Config) Rules {
	return Rules{
		MinUsernameLen:       cfg.MinUsernameLen,
		PhonePrefix:          cfg.PhonePrefix,
		PhoneLength:          cfg.PhoneLength,
		CaptchaAnswer:        cfg.CaptchaAnswer,
		RejectionProbability: cfg.RejectionProbability,
		BcryptCost:           cfg.BcryptCost,
	}
}

// AttemptRecorder appends one attempt row per registration submission.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt audit.Attempt) error
}

// Service runs the registration validation pipeline and the login flow.
type Service struct {
	repo     Repository
	recorder AttemptRecorder
	rules    Rules
}

// NewService creates an account service.
func NewService(repo Repository, recorder AttemptRecorder, rules Rules) *Service {
	if rules.Chance == nil {
		rules.Chance = rand.Float64
	}
	return &Service{repo: repo, recorder: recorder, rules: rules}
}

// Register evaluates a submission against the registration rules in fixed
// order and creates the user when every rule passes. Every invocation,
// accepted or rejected, appends exactly one attempt record before returning;
// if that write fails the whole request fails, even after a created user.
func (s *Service) Register(ctx context.Context, sub Submission) (User, error) {
	user, err := s.runPipeline(ctx, sub)

	attempt := audit.Attempt{
		UsernameAttempt: sub.Username,
		PhoneAttempt:    sub.PhoneNumber,
		IPAddress:       sub.ClientIP,
		AttemptDate:     time.Now().UTC(),
		Success:         err == nil,
	}
	if err != nil {
		attempt.ErrorMessage = err.Error()
	}
	if recErr := s.recorder.RecordAttempt(ctx, attempt); recErr != nil {
		return User{}, fmt.Errorf("%w: %v", ErrAuditWrite, recErr)
	}

	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) runPipeline(ctx context.Context, sub Submission) (User, error) {
	// Fast-path duplicate check; the schema constraint below is authoritative.
	switch _, err := s.repo.FindByUsername(ctx, sub.Username); {
	case err == nil:
		return User{}, ruleError(KindDuplicateUsername, msgDuplicateUsername)
	case !errors.Is(err, ErrUserNotFound):
		return User{}, fmt.Errorf("duplicate pre-check: %w", err)
	}

	// Lengths count characters, not bytes; Cyrillic names are the norm here.
	if utf8.RuneCountInString(sub.Username) < s.rules.MinUsernameLen {
		return User{}, ruleError(KindUsernameTooShort, msgUsernameTooShort)
	}

	if sub.Password != sub.ConfirmPassword {
		return User{}, ruleError(KindPasswordMismatch, msgPasswordMismatch)
	}

	if !strings.HasPrefix(sub.PhoneNumber, s.rules.PhonePrefix) || utf8.RuneCountInString(sub.PhoneNumber) != s.rules.PhoneLength {
		return User{}, ruleError(KindInvalidPhoneFormat, msgInvalidPhoneFormat)
	}

	if sub.CaptchaAnswer != s.rules.CaptchaAnswer {
		return User{}, ruleError(KindInvalidCaptcha, msgInvalidCaptcha)
	}

	// The acceptance gate is unreliable on purpose. A rejected submission gets
	// no hint that it was otherwise valid.
	if s.rules.Chance() < s.rules.RejectionProbability {
		return User{}, ruleError(KindArbitraryRejection, msgArbitraryRejection)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(sub.Password), s.rules.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:               uuid.New().String(),
		Username:         sub.Username,
		PhoneNumber:      sub.PhoneNumber,
		PasswordHash:     hash,
		RaceClass:        sub.RaceClass,
		RegistrationDate: time.Now().UTC(),
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			// Lost the check-then-act race; the constraint is the truth.
			return User{}, ruleError(KindDuplicateUsername, msgDuplicateUsername)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials. An unknown username and a wrong password
// produce the same rejection so usernames cannot be enumerated. Failed
// attempts are counted but never block further logins.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ruleError(KindInvalidCredentials, msgInvalidCredentials)
		}
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		if ferr := s.repo.RecordLoginFailure(ctx, user.ID); ferr != nil {
			return User{}, fmt.Errorf("record login failure: %w", ferr)
		}
		return User{}, ruleError(KindInvalidCredentials, msgInvalidCredentials)
	}

	now := time.Now().UTC()
	if err := s.repo.RecordLogin(ctx, user.ID, now); err != nil {
		return User{}, fmt.Errorf("record login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}
