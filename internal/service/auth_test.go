package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func newAuth(e *env) *AuthService {
	return &AuthService{
		Repo:          e.repo,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        e.events,
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := newAuth(e)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   transport.RegisterRequest
		field string
	}{
		{"empty username", transport.RegisterRequest{Password1: "s3cret-pass", Password2: "s3cret-pass"}, "username"},
		{"long username", transport.RegisterRequest{Username: strings.Repeat("a", 151), Password1: "s3cret-pass", Password2: "s3cret-pass"}, "username"},
		{"bad characters", transport.RegisterRequest{Username: "bad name!", Password1: "s3cret-pass", Password2: "s3cret-pass"}, "username"},
		{"short password", transport.RegisterRequest{Username: "dave", Password1: "short", Password2: "short"}, "password1"},
		{"password over bcrypt limit", transport.RegisterRequest{Username: "dave", Password1: strings.Repeat("p", 73), Password2: strings.Repeat("p", 73)}, "password1"},
		{"multibyte password over bcrypt limit", transport.RegisterRequest{Username: "dave", Password1: strings.Repeat("пароль", 7), Password2: strings.Repeat("пароль", 7)}, "password1"},
		{"numeric password", transport.RegisterRequest{Username: "dave", Password1: "1234567890", Password2: "1234567890"}, "password1"},
		{"mismatch", transport.RegisterRequest{Username: "dave", Password1: "s3cret-pass", Password2: "other-pass"}, "password2"},
		{"missing confirmation", transport.RegisterRequest{Username: "dave", Password1: "s3cret-pass"}, "password2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Fields[tt.field], "fields: %v", verr.Fields)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := newAuth(e)
	ctx := context.Background()

	req := transport.RegisterRequest{Username: "erin.w+shop@x", Password1: "s3cret-pass", Password2: "s3cret-pass"}
	user, pair, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "erin.w+shop@x", claims.Name)
	assert.Len(t, e.events.byType("user_registered"), 1)

	_, _, err = svc.Register(ctx, req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"A user with that username already exists."}, verr.Fields["username"])

	_, _, err = svc.Login(ctx, transport.LoginRequest{Username: "erin.w+shop@x", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Fields[NonFieldErrors])

	_, _, err = svc.Login(ctx, transport.LoginRequest{})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))

	got, _, err := svc.Login(ctx, transport.LoginRequest{Username: "erin.w+shop@x", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := newAuth(e)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, transport.RegisterRequest{Username: "fay", Password1: "s3cret-pass", Password2: "s3cret-pass"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshJTI, next.RefreshJTI)

	old, err := e.repo.FindRefreshByJTI(ctx, pair.RefreshJTI)
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.True(t, errors.Is(err, ErrUnauthorized), "replay must fail, got %v", err)

	_, err = svc.Refresh(ctx, "not-a-jwt")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	require.NoError(t, svc.Logout(ctx, next.RefreshToken))
	_, err = svc.Refresh(ctx, next.RefreshToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := newAuth(e)
	svc.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, transport.RegisterRequest{Username: "gus", Password1: "s3cret-pass", Password2: "s3cret-pass"})
	require.NoError(t, err)

	svc.now = nil
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	var verr ValidationError
	assert.NoError(t, verr.Err())
	verr.Add("b", "second")
	verr.Add("a", "first")
	verr.Add("a", "again")
	assert.Equal(t, "validation: a: first; again, b: second", verr.Error())
	assert.True(t, errors.Is(verr.Err(), ErrValidation))
}

func TestRegisterAcceptsPasswordAtBcryptLimit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := newAuth(e)

	pw := strings.Repeat("p", maxPasswordBytes)
	_, _, err := svc.Register(context.Background(), transport.RegisterRequest{Username: "hal", Password1: pw, Password2: pw})
	require.NoError(t, err)
}
