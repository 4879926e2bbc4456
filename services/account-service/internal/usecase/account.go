package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pakin/account-api/services/account-service/internal/config"
	"github.com/pakin/account-api/services/account-service/internal/model"
	"github.com/pakin/account-api/services/account-service/internal/repository"
	"github.com/pakin/account-api/shared/security"
)

// AccountUsecase defines the business logic of the account lifecycle: an
// account is created unconfirmed, becomes confirmed through a single-use
// emailed token, and can have its password replaced through a single-use
// reset token or a valid session token.
type AccountUsecase interface {
	// Register creates a new unconfirmed account and emails a
	// confirmation token. A stale unconfirmed account under the same
	// email is discarded and replaced.
	Register(ctx context.Context, params RegisterParams) (*model.User, error)

	// ResendConfirmation re-sends the outstanding confirmation token.
	// The token is not regenerated and its expiry is not extended.
	ResendConfirmation(ctx context.Context, email string) error

	// Confirm consumes a confirmation token and marks the account confirmed.
	Confirm(ctx context.Context, email, token string) (*model.User, error)

	// Authenticate verifies credentials and issues a session token.
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)

	// RequestPasswordReset records a reset token and emails it.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the password.
	ResetPassword(ctx context.Context, email, password, token string) error

	// UpdatePassword replaces the password of the user identified by a
	// valid session token.
	UpdatePassword(ctx context.Context, sessionToken, newPassword string) (*model.User, error)

	// GetUser returns a single user record.
	GetUser(ctx context.Context, id string) (*model.User, error)

	// ListUsers returns all user records.
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// RegisterParams defines the parameters for account registration.
type RegisterParams struct {
	Email    string
	Password string
	Data     map[string]any
}

var (
	ErrEmailAlreadyRegistered  = errors.New("email has already been registered")
	ErrNotAwaitingConfirmation = errors.New("no matching account is awaiting confirmation")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidResetDetails     = errors.New("invalid password reset details")
)

type accountUsecase struct {
	userRepo          repository.UserRepository
	sessionUsecase    SessionUsecase
	mailer            EmailSender
	accountServiceCfg *config.AccountServiceConfig
	logger            *zerolog.Logger
}

// NewAccountUsecase creates a new instance of AccountUsecase.
func NewAccountUsecase(
	userRepo repository.UserRepository,
	sessionUsecase SessionUsecase,
	mailer EmailSender,
	accountServiceCfg *config.AccountServiceConfig,
	logger *zerolog.Logger,
) AccountUsecase {
	return &accountUsecase{
		userRepo:          userRepo,
		sessionUsecase:    sessionUsecase,
		mailer:            mailer,
		accountServiceCfg: accountServiceCfg,
		logger:            logger,
	}
}

func (u *accountUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	email := normalizeEmail(params.Email)

	existing, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.Confirmed {
			return nil, ErrEmailAlreadyRegistered
		}

		// A stale unconfirmed signup must not block re-registration.
		// Discard it; its confirmation token dies with it.
		if err := u.userRepo.DeleteUnconfirmedUser(ctx, email); err != nil {
			return nil, err
		}
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expires := now.Add(u.accountServiceCfg.Token.ConfirmationTokenExpiresIn)

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:                    email,
		PasswordHash:             passwordHash,
		Confirmed:                false,
		SignupDate:               now,
		ConfirmationToken:        uuid.NewString(),
		ConfirmationTokenExpires: &expires,
		Data:                     params.Data,
	})
	if err != nil {
		return nil, err
	}

	u.sendConfirmationEmail(user.Email, user.ConfirmationToken)

	return user, nil
}

func (u *accountUsecase) ResendConfirmation(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := u.userRepo.GetPendingConfirmation(ctx, email, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Uniform success: do not reveal whether a pending signup
			// exists for this email.
			u.logger.Warn().Str("email", email).Msg("resend requested with no pending confirmation")
			return nil
		}
		return err
	}

	u.sendConfirmationEmail(user.Email, user.ConfirmationToken)

	return nil
}

func (u *accountUsecase) Confirm(ctx context.Context, email, token string) (*model.User, error) {
	email = normalizeEmail(email)

	user, err := u.userRepo.ConfirmUser(ctx, email, token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAwaitingConfirmation
		}
		return nil, err
	}

	return user, nil
}

func (u *accountUsecase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	// Unconfirmed accounts fail with the same outcome as a wrong password.
	if !user.Confirmed {
		return nil, "", ErrInvalidCredentials
	}

	if !u.isMasterPassword(password) {
		ok, err := security.VerifyPassword(password, user.PasswordHash)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", ErrInvalidCredentials
		}
	}

	token, err := u.sessionUsecase.Issue(user)
	if err != nil {
		return nil, "", err
	}

	u.logger.Info().Str("email", user.Email).Str("user_id", user.ID.Hex()).Msg("user signed in")

	return user, token, nil
}

func (u *accountUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Uniform success: do not reveal whether the email exists.
			u.logger.Warn().Str("email", email).Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	if !user.Confirmed {
		u.logger.Warn().Str("email", email).Msg("password reset requested for unconfirmed account")
		return nil
	}

	token := uuid.NewString()
	now := time.Now()
	expires := now.Add(u.accountServiceCfg.Token.PasswordResetTokenExpiresIn)

	if err := u.userRepo.SetPasswordResetToken(ctx, user.ID.Hex(), token, now, expires); err != nil {
		return err
	}

	u.sendPasswordResetEmail(user.Email, token)

	return nil
}

func (u *accountUsecase) ResetPassword(ctx context.Context, email, password, token string) error {
	email = normalizeEmail(email)

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.ResetPassword(ctx, email, token, passwordHash, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetDetails
		}
		return err
	}

	return nil
}

func (u *accountUsecase) UpdatePassword(ctx context.Context, sessionToken, newPassword string) (*model.User, error) {
	user, err := u.sessionUsecase.Validate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.UpdatePassword(ctx, user.ID.Hex(), passwordHash, time.Now()); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *accountUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	return u.userRepo.GetUser(ctx, id)
}

func (u *accountUsecase) ListUsers(ctx context.Context) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx)
}

// isMasterPassword reports whether the operator master password is enabled
// and matches. The comparison is constant-time.
func (u *accountUsecase) isMasterPassword(password string) bool {
	master := u.accountServiceCfg.MasterPassword
	if master == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(master)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
