package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// sessionRepository implements the SessionRepository interface using PostgreSQL.
type sessionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSessionRepository creates a new PostgreSQL-backed session repository.
func NewSessionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "session").Logger(),
	}
}

// Create inserts a new session row.
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, session.Token, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", session.UserID.String()).Msg("failed to create session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Debug().Str("user_id", session.UserID.String()).Msg("session created")

	return nil
}

// GetWithUser retrieves a session and its owning user by token.
func (r *sessionRepository) GetWithUser(ctx context.Context, token string) (*model.Session, *model.User, error) {
	query := `
		SELECT s.token, s.user_id, s.expires_at, s.created_at,
		       u.id, u.email, u.name, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`

	var (
		s model.Session
		u model.User
	)
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&s.Token,
		&s.UserID,
		&s.ExpiresAt,
		&s.CreatedAt,
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query session")
		return nil, nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, &u, nil
}

// Delete removes a session by token. Deleting an absent token is a no-op so
// logout stays idempotent.
func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	tag, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	r.logger.Debug().Int64("rows", tag.RowsAffected()).Msg("session deleted")

	return nil
}
