package account

import "errors"

// RuleKind names the registration or login rule that rejected a submission.
type RuleKind string

const (
	KindDuplicateUsername  RuleKind = "duplicate_username"
	KindUsernameTooShort   RuleKind = "username_too_short"
	KindPasswordMismatch   RuleKind = "password_mismatch"
	KindInvalidPhoneFormat RuleKind = "invalid_phone_format"
	KindInvalidCaptcha     RuleKind = "invalid_captcha"
	KindArbitraryRejection RuleKind = "arbitrary_rejection"
	KindInvalidCredentials RuleKind = "invalid_credentials"
)

// User-facing rejection messages. Fixed literals: clients and the audit
// trail both key off the exact wording.
const (
	msgDuplicateUsername  = "Пользователь уже существует! Попробуйте другое имя или страдайте дальше."
	msgUsernameTooShort   = "Имя слишком короткое! В нашем мире имена должны быть длиннее."
	msgPasswordMismatch   = "Пароли не совпадают! Это плохая примета."
	msgInvalidPhoneFormat = "Номер телефона должен начинаться с +7 и содержать ровно 12 символов!"
	msgInvalidCaptcha     = "Неверная капча! Правильный ответ всегда 42."
	msgArbitraryRejection = "Сервер решил, что вы недостойны регистрации. Попробуйте еще раз."
	msgInvalidCredentials = "Неверные учетные данные! Или вы забыли пароль, или мы вас не помним."
)

// RuleError is a structured rejection: which rule fired and the fixed message
// shown to the user. Handlers inspect Kind to pick a status code.
type RuleError struct {
	Kind    RuleKind
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleError(kind RuleKind, msg string) *RuleError {
	return &RuleError{Kind: kind, Message: msg}
}

var (
	// ErrUsernameTaken is returned by repositories when an insert trips the
	// schema-level uniqueness constraint on username. The constraint, not the
	// pipeline's pre-check, is the source of truth for duplicates.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserNotFound is returned by repositories on username lookups that
	// match no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuditWrite marks a failed audit-trail write. A registration whose
	// attempt record cannot be persisted must not report success.
	ErrAuditWrite = errors.New("audit write failed")
)

// AsRuleError unwraps err into a *RuleError if it carries one.
func AsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
