package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

func newAuth(t *testing.T, issuer string) AuthService {
	t.Helper()
	as, err := NewAuthService(logger.Nop(), "test-secret", issuer)
	require.NoError(t, err)
	return as
}

func TestSetContextFromTokenRoundTrip(t *testing.T) {
	auth := newAuth(t, "medstudy")
	tok, err := auth.MintToken(ctxutil.RequestData{UserID: "sub-123", Email: "a@b.c", FirstName: "Ada"}, time.Minute)
	require.NoError(t, err)
	ctx, err := auth.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)

	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, "sub-123", rd.UserID)
	assert.Equal(t, "a@b.c", rd.Email)
	assert.Equal(t, "Ada", rd.FirstName)
	assert.Equal(t, tok, rd.TokenString)
}

func TestSetContextFromTokenRejects(t *testing.T) {
	auth := newAuth(t, "medstudy")
	other := newAuth(t, "someone-else")

	sign := func(claims jwt.RegisteredClaims, key string) string {
		t.Helper()
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: claims}).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}
	wrongIssuer, err := other.MintToken(ctxutil.RequestData{UserID: "u"}, time.Minute)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":   "",
		"garbage": "abc.def.ghi",
		"expired": sign(jwt.RegisteredClaims{
			Subject: "u", Issuer: "medstudy", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}, "test-secret"),
		"wrong issuer": wrongIssuer,
		"no expiry":    sign(jwt.RegisteredClaims{Subject: "u", Issuer: "medstudy"}, "test-secret"),
		"wrong key": sign(jwt.RegisteredClaims{
			Subject: "u", Issuer: "medstudy", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}, "not-the-secret"),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.SetContextFromToken(context.Background(), tok)
			assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
		})
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(logger.Nop(), " ", "")
	assert.Error(t, err)
}
