package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	RecordLoginFailure(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. A uniqueness-constraint violation on username is
// reported as ErrUsernameTaken.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users
        (id, username, phone_number, password_hash, race_class, registration_date, is_active, failed_attempts)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, user.Username, user.PhoneNumber, user.PasswordHash, user.RaceClass,
		user.RegistrationDate.UTC(), user.IsActive, user.FailedAttempts)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUsernameTaken
	}
	return err
}

// FindByUsername fetches a user by exact username match.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, phone_number, password_hash, race_class,
        registration_date, is_active, failed_attempts, last_login
        FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return user, err
}

// List returns all registered users ordered by registration date.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, phone_number, password_hash, race_class,
        registration_date, is_active, failed_attempts, last_login
        FROM users ORDER BY registration_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// RecordLoginFailure bumps the failed-attempt counter by one.
func (r *PostgresRepository) RecordLoginFailure(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET failed_attempts = failed_attempts + 1 WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RecordLogin stamps the last successful login time.
func (r *PostgresRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at.UTC(), userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        uuid.UUID
		regDate   time.Time
		lastLogin *time.Time
		user      User
	)
	if err := row.Scan(&id, &user.Username, &user.PhoneNumber, &user.PasswordHash, &user.RaceClass,
		&regDate, &user.IsActive, &user.FailedAttempts, &lastLogin); err != nil {
		return User{}, err
	}
	user.ID = id.String()
	user.RegistrationDate = regDate.UTC()
	if lastLogin != nil {
		t := lastLogin.UTC()
		user.LastLogin = &t
	}
	return user, nil
}
