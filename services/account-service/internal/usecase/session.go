package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pakin/account-api/services/account-service/internal/config"
	"github.com/pakin/account-api/services/account-service/internal/model"
	"github.com/pakin/account-api/services/account-service/internal/repository"
	"github.com/pakin/account-api/shared/auth"
)

// SessionUsecase issues, validates and refreshes signed session tokens.
// Tokens are stateless: no session record is kept server-side, so a
// refreshed token does not revoke its predecessor. Rotating the signing
// secret or bumping the token version invalidates everything outstanding.
type SessionUsecase interface {
	// Issue creates a signed session token for the user.
	Issue(user *model.User) (string, error)

	// Validate verifies the token and resolves its subject to an existing
	// account. Every failure mode is reported as ErrInvalidSessionToken.
	Validate(ctx context.Context, token string) (*model.User, error)

	// Refresh validates the token and issues a fresh one for the same user.
	Refresh(ctx context.Context, token string) (*model.User, string, error)
}

// ErrInvalidSessionToken covers every session token failure: bad signature,
// expiry, version mismatch and unresolvable subject. Callers are never told
// which check failed.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims is the payload of a session token. Version tracks the token
// schema; tokens carrying any other version are rejected, which allows mass
// invalidation by bumping the configured version.
type SessionClaims struct {
	Version int `json:"v"`
	jwt.RegisteredClaims
}

type sessionUsecase struct {
	userRepo          repository.UserRepository
	jwtAuth           auth.JWTAuthenticator
	accountServiceCfg *config.AccountServiceConfig
}

// NewSessionUsecase creates a new instance of SessionUsecase.
func NewSessionUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	accountServiceCfg *config.AccountServiceConfig,
) SessionUsecase {
	return &sessionUsecase{
		userRepo:          userRepo,
		jwtAuth:           jwtAuth,
		accountServiceCfg: accountServiceCfg,
	}
}

func (u *sessionUsecase) Issue(user *model.User) (string, error) {
	tokenCfg := u.accountServiceCfg.Token

	now := time.Now()
	claims := SessionClaims{
		Version: tokenCfg.SessionTokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenCfg.Issuer,
			Audience: jwt.ClaimStrings{tokenCfg.Issuer},
			Subject:  user.ID.Hex(),
			// The JTI makes every issued token unique, so a refreshed
			// token always differs from the one it replaces.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenCfg.SessionTokenExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return u.jwtAuth.GenerateToken(claims, tokenCfg.SessionTokenSecret)
}

func (u *sessionUsecase) Validate(ctx context.Context, token string) (*model.User, error) {
	claims := &SessionClaims{}
	if _, err := u.jwtAuth.ValidateTokenWithClaims(
		token,
		u.accountServiceCfg.Token.SessionTokenSecret,
		claims,
	); err != nil {
		return nil, ErrInvalidSessionToken
	}

	if claims.Version != u.accountServiceCfg.Token.SessionTokenVersion {
		return nil, ErrInvalidSessionToken
	}

	user, err := u.userRepo.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSessionToken
		}
		return nil, err
	}

	return user, nil
}

func (u *sessionUsecase) Refresh(ctx context.Context, token string) (*model.User, string, error) {
	user, err := u.Validate(ctx, token)
	if err != nil {
		return nil, "", err
	}

	freshToken, err := u.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, freshToken, nil
}
