package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

// Identity provider failures. Callers map these to user-facing messages.
var (
	ErrEmailInUse      = errors.New("identity: email already in use")
	ErrInvalidEmail    = errors.New("identity: invalid email")
	ErrWeakPassword    = errors.New("identity: weak password")
	ErrUserNotFound    = errors.New("identity: user not found")
	ErrWrongPassword   = errors.New("identity: wrong password")
	ErrTooManyRequests = errors.New("identity: too many requests")
)

type identityAccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

type sessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type signInThrottle interface {
	Allowed(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// IdentityConfig configures token minting.
type IdentityConfig struct {
	TokenSecret string
	Issuer      string
	TokenTTL    time.Duration
}

// IdentityService issues user ids, sessions and access tokens.
type IdentityService struct {
	accounts identityAccountRepository
	sessions sessionStore
	throttle signInThrottle
	logger   *zap.Logger
	config   IdentityConfig
	now      func() time.Time
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(accounts identityAccountRepository, sessions sessionStore, throttle signInThrottle, logger *zap.Logger, config IdentityConfig) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &IdentityService{
		accounts: accounts,
		sessions: sessions,
		throttle: throttle,
		logger:   logger,
		config:   config,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SignUp creates a new account.
func (s *IdentityService) SignUp(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if !ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !ValidatePassword(password) {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	account := &models.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.logger.Info("identity account created", zap.String("user_id", account.ID))
	return account, nil
}

// SignIn verifies credentials and opens a session.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, email)
		if err != nil {
			s.logger.Warn("sign-in throttle check failed", zap.Error(err))
		} else if !allowed {
			return nil, ErrTooManyRequests
		}
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordFailure(ctx, email)
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return nil, ErrWrongPassword
	}
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn("sign-in throttle reset failed", zap.Error(err))
		}
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		Email:     account.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TokenTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *IdentityService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("sign-in throttle update failed", zap.Error(err))
	}
}

// IssueToken mints an access token bound to the session and role.
func (s *IdentityService) IssueToken(session *models.Session, role models.Role) (string, error) {
	claims := &models.JWTClaims{
		UserID: session.UserID,
		Email:  session.Email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    s.config.Issuer,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

// SignOut revokes the session.
func (s *IdentityService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// ValidateToken checks the token signature and that its session is still open.
func (s *IdentityService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	session, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return nil, appErrors.Internal(err, "failed to verify session")
	}
	if session.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}
