package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, time.Second), mr
}

func TestVerify_SingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user@example.com", "123456"))
	require.NoError(t, store.Verify(ctx, "user@example.com", "123456"))

	// The code was consumed; replaying it must fail.
	err := store.Verify(ctx, "user@example.com", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerify_MismatchKeepsCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "+77010000001", "654321"))

	err := store.Verify(ctx, "+77010000001", "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)

	// The right code still works after a wrong guess.
	assert.NoError(t, store.Verify(ctx, "+77010000001", "654321"))
}

func TestVerify_NeverIssued(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Verify(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerify_TTLElapsed(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user@example.com", "123456"))

	mr.FastForward(CodeTTL + time.Second)

	err := store.Verify(ctx, "user@example.com", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestSave_ResendOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user@example.com", "111111"))
	require.NoError(t, store.Save(ctx, "user@example.com", "222222"))

	err := store.Verify(ctx, "user@example.com", "111111")
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.NoError(t, store.Verify(ctx, "user@example.com", "222222"))
}

func TestSave_KeyedByIdentifier(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Two users may hold the same code at the same time.
	require.NoError(t, store.Save(ctx, "a@example.com", "123456"))
	require.NoError(t, store.Save(ctx, "b@example.com", "123456"))

	require.NoError(t, store.Verify(ctx, "a@example.com", "123456"))
	assert.NoError(t, store.Verify(ctx, "b@example.com", "123456"))
}

func TestStoreDown_FailsClosed(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user@example.com", "123456"))
	mr.Close()

	assert.ErrorIs(t, store.Save(ctx, "user@example.com", "654321"), ErrUnavailable)
	assert.ErrorIs(t, store.Verify(ctx, "user@example.com", "123456"), ErrUnavailable)
}

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
