package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost keeps verification in the tens-of-milliseconds range.
const bcryptCost = 10

// sessionTokenBytes is the entropy of a session token before encoding.
const sessionTokenBytes = 32

// authService implements AuthService.
type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service. ttlDays bounds how long issued
// sessions stay valid.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	ttlDays int,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  time.Duration(ttlDays) * 24 * time.Hour,
		logger:      logger.With().Str("service", "auth").Logger(),
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// newSessionToken generates an opaque URL-safe bearer token with 256 bits of
// randomness.
func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Register creates a new user and an initial session.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.PublicUser, *model.Session, error) {
	if verr := validateStruct(req); verr != nil {
		return nil, nil, verr
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == model.ErrEmailTaken {
			s.logger.Warn().Str("email", req.Email).Msg("registration with taken email")
			return nil, nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, nil, fmt.Errorf("failed to register: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return user.Public(), session, nil
}

// Login authenticates a user and creates a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.PublicUser, *model.Session, error) {
	if verr := validateStruct(req); verr != nil {
		return nil, nil, verr
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, nil, fmt.Errorf("failed to log in: %w", err)
	}

	if user == nil || !VerifyPassword(req.Password, user.PasswordHash) {
		s.logger.Warn().Str("email", req.Email).Msg("invalid credentials")
		return nil, nil, model.ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return user.Public(), session, nil
}

// createSession issues and persists a fresh session for a user.
func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*model.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate session token")
		return nil, err
	}

	now := time.Now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to persist session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ResolveSession maps a token to its user. Expired sessions are deleted on
// the spot; there is no background sweep.
func (s *authService) ResolveSession(ctx context.Context, token string) (*model.PublicUser, error) {
	if token == "" {
		return nil, nil
	}

	session, user, err := s.sessionRepo.GetWithUser(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve session")
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now()) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			s.logger.Error().Err(err).Msg("failed to evict expired session")
		}
		s.logger.Debug().Str("user_id", session.UserID.String()).Msg("expired session evicted")
		return nil, nil
	}

	return user.Public(), nil
}

// RevokeSession deletes a session. Revoking twice, or revoking a token that
// was never issued, succeeds without error.
func (s *authService) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		s.logger.Error().Err(err).Msg("failed to revoke session")
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
