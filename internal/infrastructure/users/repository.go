package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "bondregistry/internal/domain/entity/users"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository stores users and their API keys in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id, username, password_hash, created_at`

	row := r.pool.QueryRow(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err := scanUserInto(row, user); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1`
	return r.getUserWith(ctx, query, id)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1`
	return r.getUserWith(ctx, query, username)
}

func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM users WHERE id=$1`
	cmdTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SaveAPIKey replaces the user's key so each user holds exactly one.
func (r *Repository) SaveAPIKey(ctx context.Context, key string, userID uuid.UUID) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM api_keys WHERE user_id=$1`, userID); err != nil {
			return err
		}
		const query = `
			INSERT INTO api_keys (key, user_id, created_at)
			VALUES ($1,$2,$3)`
		if _, err := tx.Exec(ctx, query, key, userID, time.Now().UTC()); err != nil {
			return err
		}
		return nil
	})
}

func (r *Repository) LookupAPIKey(ctx context.Context, key string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM api_keys WHERE key = $1`, key).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrAPIKeyNotFound
		}
		return uuid.Nil, err
	}
	return userID, nil
}

func (r *Repository) APIKeyForUser(ctx context.Context, userID uuid.UUID) (string, error) {
	var key string
	err := r.pool.QueryRow(ctx, `SELECT key FROM api_keys WHERE user_id = $1`, userID).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrAPIKeyNotFound
		}
		return "", err
	}
	return key, nil
}

func (r *Repository) getUserWith(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	user := &domain.User{}
	if err := scanUserInto(row, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserInto(row pgx.Row, user *domain.User) error {
	return row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
}

func (r *Repository) withTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && strings.Contains(pgErr.ConstraintName, "username")
	}
	return false
}
