package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
)

// CredentialVerifier checks an operator credential pair. Implementations can
// later be swapped for a real identity provider without touching callers.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*models.Operator, error)
}

type sessionStore interface {
	Put(ctx context.Context, tokenID, role string, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (string, error)
	Delete(ctx context.Context, tokenID string) error
}

// StaticVerifier accepts exactly one configured credential pair. The
// password is bcrypt-hashed at construction so the comparison path matches a
// future store-backed verifier.
type StaticVerifier struct {
	username     string
	passwordHash []byte
}

// NewStaticVerifier builds a verifier for the configured pair.
func NewStaticVerifier(username, password string) (*StaticVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &StaticVerifier{username: username, passwordHash: hash}, nil
}

// Verify checks the pair, never revealing which half was wrong.
func (v *StaticVerifier) Verify(ctx context.Context, username, password string) (*models.Operator, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(v.username), []byte(username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))
	if !usernameOK || passwordErr != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}
	return &models.Operator{ID: "1", Username: v.username, Role: models.RoleAdmin}, nil
}

// AuthConfig defines configuration for the session guard.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService issues and validates admin sessions.
type AuthService struct {
	verifier  CredentialVerifier
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(verifier CredentialVerifier, sessions sessionStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{verifier: verifier, sessions: sessions, validator: validate, logger: logger, config: config}
}

// Login authenticates an operator and returns an issued token. The session
// flag is written to the store with the token's TTL.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	operator, err := s.verifier.Verify(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	token, claims, err := s.generateAccessToken(operator)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	if err := s.sessions.Put(ctx, claims.ID, string(operator.Role), s.config.Expiration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.logger.Info("operator signed in", zap.String("username", operator.Username), zap.String("ip", req.IP))
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    claims.IssuedAt.Time,
		Operator:    *operator,
	}, nil
}

// Logout clears the session flag unconditionally; it always succeeds for a
// well-formed token.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	s.logger.Info("operator signed out", zap.String("username", claims.Username))
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
// Malformed material is treated as "no session".
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// CurrentSession checks that the token's session flag is still present. A
// logged-out token is rejected even before its expiry.
func (s *AuthService) CurrentSession(ctx context.Context, claims *models.JWTClaims) error {
	role, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if role == "" || role != string(claims.Role) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}
	return nil
}

func (s *AuthService) generateAccessToken(operator *models.Operator) (string, *models.JWTClaims, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		OperatorID: operator.ID,
		Username:   operator.Username,
		Role:       operator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   operator.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}
