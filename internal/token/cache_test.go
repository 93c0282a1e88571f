package token

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jwtWithExp builds a syntactically valid JWT carrying only an exp claim.
func jwtWithExp(exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))
	return header + "." + payload + ".sig"
}

func countingHarvest(token string, calls *int) HarvestFunc {
	return func(context.Context) (string, error) {
		*calls++
		return token, nil
	}
}

func TestGetHarvestsOnceWhileFresh(t *testing.T) {
	calls := 0
	c := NewCache(countingHarvest(jwtWithExp(time.Now().Add(12*time.Hour)), &calls), zerolog.Nop())

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	}
	assert.Equal(t, 1, calls)
}

func TestGetRefreshesInsideRenewalWindow(t *testing.T) {
	// expires in 30 minutes, renewAhead is 1 hour: never considered fresh
	calls := 0
	c := NewCache(countingHarvest(jwtWithExp(time.Now().Add(30*time.Minute)), &calls), zerolog.Nop())

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetFallsBackForOpaqueTokens(t *testing.T) {
	calls := 0
	c := NewCache(countingHarvest("opaque-token", &calls), zerolog.Nop())

	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", got)
	assert.Equal(t, 1, calls)

	// cached under the fallback TTL, no second harvest
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	ttl := c.TTL()
	assert.Greater(t, ttl, 22*time.Hour)
	assert.LessOrEqual(t, ttl, 24*time.Hour)
}

func TestGetRejectsEmptyHarvest(t *testing.T) {
	c := NewCache(func(context.Context) (string, error) { return "", nil }, zerolog.Nop())
	_, err := c.Get(context.Background())
	require.Error(t, err)
}

func TestGetPropagatesHarvestError(t *testing.T) {
	boom := errors.New("console unreachable")
	c := NewCache(func(context.Context) (string, error) { return "", boom }, zerolog.Nop())
	_, err := c.Get(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestInvalidateForcesRefresh(t *testing.T) {
	calls := 0
	c := NewCache(countingHarvest(jwtWithExp(time.Now().Add(12*time.Hour)), &calls), zerolog.Nop())

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	assert.Equal(t, time.Duration(0), c.TTL())

	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDecodeExpiration(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	got, err := decodeExpiration(jwtWithExp(exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	tests := []struct {
		name  string
		token string
	}{
		{"not a jwt", "opaque"},
		{"two parts", "a.b"},
		{"bad base64", "a.!!!.c"},
		{"no exp claim", "a." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x"}`)) + ".c"},
		{"payload not json", "a." + base64.RawURLEncoding.EncodeToString([]byte(`hello`)) + ".c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeExpiration(tt.token)
			require.Error(t, err)
		})
	}
}
