package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		ResetSecret:   []byte("reset-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTTL:      time.Hour,
		OpTimeout:     time.Second,
	}, rdb)
	return svc, mr
}

// signExpired mints a token signed with secret whose exp is in the past.
func signExpired(t *testing.T, secret []byte, userID string) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestGenerateAndVerify_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	for _, kind := range []Kind{KindAccess, KindRefresh, KindReset} {
		tokenStr, err := svc.Generate(kind, "user-1")
		require.NoError(t, err)

		claims, err := svc.Verify(kind, tokenStr)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	}
}

func TestVerify_WrongKindFails(t *testing.T) {
	svc, _ := newTestService(t)

	refreshToken, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// A refresh token must never pass as an access token.
	_, err = svc.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	svc, _ := newTestService(t)

	stale := signExpired(t, []byte("access-secret"), "user-1")
	_, err := svc.VerifyAccessToken(stale)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Garbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsExpired(t *testing.T) {
	svc, _ := newTestService(t)

	fresh, err := svc.GenerateAccessToken("user-1")
	require.NoError(t, err)
	assert.False(t, svc.IsExpired(fresh))

	assert.True(t, svc.IsExpired(signExpired(t, []byte("access-secret"), "user-1")))
	assert.True(t, svc.IsExpired("garbage"))
}

func TestRefreshAccess(t *testing.T) {
	svc, _ := newTestService(t)

	refreshToken, err := svc.GenerateRefreshToken("user-9")
	require.NoError(t, err)

	accessToken, err := svc.RefreshAccess(refreshToken)
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
}

func TestRefreshAccess_RejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t)

	accessToken, err := svc.GenerateAccessToken("user-9")
	require.NoError(t, err)

	_, err = svc.RefreshAccess(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBlacklist_RoundTrip(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	tokenStr, err := svc.GenerateAccessToken("user-1")
	require.NoError(t, err)

	revoked, err := svc.IsBlacklisted(ctx, tokenStr)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.BlacklistAccessToken(ctx, tokenStr))

	revoked, err = svc.IsBlacklisted(ctx, tokenStr)
	require.NoError(t, err)
	assert.True(t, revoked)

	// The entry lives only as long as the token itself.
	ttl := mr.TTL(blacklistPrefix + tokenStr)
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)

	mr.FastForward(16 * time.Minute)
	revoked, err = svc.IsBlacklisted(ctx, tokenStr)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklist_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenStr, err := svc.GenerateAccessToken("user-1")
	require.NoError(t, err)

	require.NoError(t, svc.BlacklistAccessToken(ctx, tokenStr))
	require.NoError(t, svc.BlacklistAccessToken(ctx, tokenStr))
}

func TestBlacklist_RejectsExpiredAndInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.BlacklistAccessToken(ctx, signExpired(t, []byte("access-secret"), "user-1"))
	assert.ErrorIs(t, err, ErrTokenExpired)

	err = svc.BlacklistAccessToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsBlacklisted_FailsClosedWhenStoreDown(t *testing.T) {
	svc, mr := newTestService(t)

	tokenStr, err := svc.GenerateAccessToken("user-1")
	require.NoError(t, err)

	mr.Close()

	_, err = svc.IsBlacklisted(context.Background(), tokenStr)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
