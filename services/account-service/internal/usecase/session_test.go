package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pakin/account-api/services/account-service/internal/model"
	"github.com/pakin/account-api/shared/auth"
)

func newSessionTestEnv(t *testing.T) (*testEnv, *model.User) {
	t.Helper()

	env := newTestEnv(newTestConfig())
	user, err := env.repo.CreateUser(context.Background(), &model.User{
		Email:        testEmail,
		PasswordHash: "irrelevant",
		Confirmed:    true,
		SignupDate:   time.Now(),
	})
	require.NoError(t, err)

	return env, user
}

func TestSessionIssueAndValidate(t *testing.T) {
	env, user := newSessionTestEnv(t)

	token, err := env.session.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	validated, err := env.session.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), validated.ID.Hex())
}

func TestSessionRefresh(t *testing.T) {
	env, user := newSessionTestEnv(t)
	ctx := context.Background()

	token, err := env.session.Issue(user)
	require.NoError(t, err)

	refreshed, freshToken, err := env.session.Refresh(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), refreshed.ID.Hex())

	// The fresh token is a different credential that still resolves to
	// the same user. The old one stays valid until its own expiry.
	assert.NotEqual(t, token, freshToken)

	validated, err := env.session.Validate(ctx, freshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), validated.ID.Hex())

	_, err = env.session.Validate(ctx, token)
	assert.NoError(t, err)
}

func TestSessionValidate_Expired(t *testing.T) {
	cfg := newTestConfig()
	cfg.Token.SessionTokenExpiresIn = -time.Minute

	env := newTestEnv(cfg)
	user, err := env.repo.CreateUser(context.Background(), &model.User{
		Email:     testEmail,
		Confirmed: true,
	})
	require.NoError(t, err)

	token, err := env.session.Issue(user)
	require.NoError(t, err)

	_, err = env.session.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionValidate_VersionMismatch(t *testing.T) {
	env, user := newSessionTestEnv(t)

	token, err := env.session.Issue(user)
	require.NoError(t, err)

	// A service configured with a bumped token version rejects every
	// previously issued token.
	bumpedCfg := newTestConfig()
	bumpedCfg.Token.SessionTokenVersion = 2
	jwtAuth := auth.NewJWTAuthenticator(bumpedCfg.Token.Issuer, bumpedCfg.Token.Issuer)
	bumpedSession := NewSessionUsecase(env.repo, jwtAuth, bumpedCfg)

	_, err = bumpedSession.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionValidate_WrongSecret(t *testing.T) {
	env, user := newSessionTestEnv(t)

	token, err := env.session.Issue(user)
	require.NoError(t, err)

	otherCfg := newTestConfig()
	otherCfg.Token.SessionTokenSecret = "rotated-secret"
	jwtAuth := auth.NewJWTAuthenticator(otherCfg.Token.Issuer, otherCfg.Token.Issuer)
	otherSession := NewSessionUsecase(env.repo, jwtAuth, otherCfg)

	_, err = otherSession.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionValidate_UnknownSubject(t *testing.T) {
	env := newTestEnv(newTestConfig())

	ghost := &model.User{ID: bson.NewObjectID(), Email: testEmail}
	token, err := env.session.Issue(ghost)
	require.NoError(t, err)

	_, err = env.session.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionValidate_Garbage(t *testing.T) {
	env := newTestEnv(newTestConfig())

	for _, token := range []string{"", "1234", "not.a.jwt"} {
		_, err := env.session.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	}
}
