package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/ctxutil"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.auth.Register(ctx, RegisterInput{Username: "  Ada.Lovelace ", Password: "analytical-engine"})
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace", u.Username)
	assert.Equal(t, "ada.lovelace", u.DisplayName)
	assert.Equal(t, types.RoleStandard, u.Role)
	assert.NotEqual(t, "analytical-engine", u.PasswordHash)

	sess, err := h.auth.Authenticate(ctx, "ADA.LOVELACE", "analytical-engine")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, u.ID, sess.User.ID)

	authed, err := h.auth.SetContextFromToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(authed)
	require.NotNil(t, rd)
	assert.Equal(t, u.ID, rd.UserID)
	assert.Equal(t, "ada.lovelace", rd.Username)
	assert.NotEmpty(t, rd.TokenID)
	assert.False(t, rd.ExpiresAt.IsZero())
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.auth.Register(ctx, RegisterInput{Username: "grace", Password: "cobol-rules"})
	require.NoError(t, err)

	var authErr *AuthError
	_, err = h.auth.Authenticate(ctx, "grace", "wrong-password")
	assert.ErrorAs(t, err, &authErr)
	_, err = h.auth.Authenticate(ctx, "nobody", "cobol-rules")
	assert.ErrorAs(t, err, &authErr)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.auth.Register(ctx, RegisterInput{Username: "linus", Password: "penguins!"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		in     RegisterInput
		status int
	}{
		{"duplicate username", RegisterInput{Username: "Linus", Password: "penguins!"}, 409},
		{"short password", RegisterInput{Username: "ken", Password: "short"}, 400},
		{"short username", RegisterInput{Username: "k", Password: "long-enough"}, 400},
		{"bad characters", RegisterInput{Username: "ken thompson", Password: "long-enough"}, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.auth.Register(ctx, tc.in)
			var ae *apierr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.status, ae.Status)
		})
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, tok := range []string{"", "not-a-jwt", "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0."} {
		_, err := h.auth.SetContextFromToken(ctx, tok)
		assert.True(t, errors.Is(err, ErrInvalidToken), "token %q: %v", tok, err)
	}

	other := NewAuthService(h.db, h.log, h.users, nil, "another-secret", 0)
	_, err := h.auth.Register(ctx, RegisterInput{Username: "dennis", Password: "unix-forever"})
	require.NoError(t, err)
	sess, err := other.Authenticate(ctx, "dennis", "unix-forever")
	require.NoError(t, err)
	_, err = h.auth.SetContextFromToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.auth.Register(ctx, RegisterInput{Username: "barbara", Password: "liskov-sub"})
	require.NoError(t, err)
	sess, err := h.auth.Authenticate(ctx, "barbara", "liskov-sub")
	require.NoError(t, err)

	authed, err := h.auth.SetContextFromToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	require.NoError(t, h.auth.Logout(authed))

	_, err = h.auth.SetContextFromToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.Error(t, h.auth.Logout(ctx), "logout needs a session")
}
