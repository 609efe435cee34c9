package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hasna/docdex/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays_returns_first_success(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "<html></html>", nil
	}

	html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, crawl.DefaultRetryDelays())
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
	assert.Equal(t, 1, calls)
}

func TestFetchWithRetryDelays_retries_until_success(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}

	delays := []time.Duration{time.Millisecond, time.Millisecond}
	html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetryDelays_returns_last_error_when_exhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "", errors.New("down")
	}

	delays := []time.Duration{time.Millisecond}
	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)
	require.Error(t, err)
	assert.Equal(t, "down", err.Error())
	assert.Equal(t, 2, calls)
}

func TestFetchWithRetryDelays_honors_context_cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context, url string) (string, error) {
		cancel()
		return "", errors.New("transient")
	}

	_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, []time.Duration{time.Minute})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultRetryDelays_backs_off_exponentially(t *testing.T) {
	t.Parallel()

	delays := crawl.DefaultRetryDelays()
	require.Len(t, delays, 3)
	assert.Equal(t, time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
	assert.Equal(t, 4*time.Second, delays[2])
}
