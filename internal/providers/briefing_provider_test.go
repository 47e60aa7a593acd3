package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chronorise/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func briefingConfig(enabled bool, apiKey, baseURL string) *structures.Config {
	return &structures.Config{
		Briefing: structures.BriefingConfig{
			Enabled: enabled,
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   "gemini-2.5-flash",
			Timeout: time.Second,
		},
	}
}

func TestBriefingProvider_DisabledUsesTemplate(t *testing.T) {
	b := NewBriefingProvider(briefingConfig(false, "", ""), &cacheTestLogger{})
	assert.False(t, b.Enabled())

	msg, err := b.Generate(context.Background(), "Workout", "07:00")
	require.NoError(t, err)
	assert.Equal(t, "Good morning! It's 07:00. Time to Workout!", msg)
}

func TestBriefingProvider_MissingKeyUsesTemplate(t *testing.T) {
	b := NewBriefingProvider(briefingConfig(true, "", ""), &cacheTestLogger{})
	assert.False(t, b.Enabled())

	msg, err := b.Generate(context.Background(), "", "06:30")
	require.NoError(t, err)
	assert.Equal(t, "Good morning! It's 06:30. Time to wake up!", msg)
}

func TestBriefingProvider_GenerateSuccess(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Time to crush that workout!  "}]}}]}`))
	}))
	defer srv.Close()

	b := NewBriefingProvider(briefingConfig(true, "test-key", srv.URL), &cacheTestLogger{})
	require.True(t, b.Enabled())

	msg, err := b.Generate(context.Background(), "Workout", "07:00")
	require.NoError(t, err)
	assert.Equal(t, "Time to crush that workout!", msg)
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
}

func TestBriefingProvider_GenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	b := NewBriefingProvider(briefingConfig(true, "test-key", srv.URL), &cacheTestLogger{})

	msg, err := b.Generate(context.Background(), "Workout", "07:00")
	require.NoError(t, err)
	assert.Equal(t, "Rise and shine! It's 07:00.", msg)
}

func TestBriefingProvider_GenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := NewBriefingProvider(briefingConfig(true, "test-key", srv.URL), &cacheTestLogger{})

	_, err := b.Generate(context.Background(), "Workout", "07:00")
	assert.Error(t, err)
}

func TestBriefingProvider_GenerateRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the request body so the server notices the aborted
		// connection, and bound the wait so a missed cancellation cannot
		// wedge the suite.
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	b := NewBriefingProvider(briefingConfig(true, "test-key", srv.URL), &cacheTestLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := b.Generate(ctx, "Workout", "07:00")
	assert.Error(t, err)
}

func TestBriefingProvider_Fallback(t *testing.T) {
	b := NewBriefingProvider(briefingConfig(true, "test-key", ""), &cacheTestLogger{})
	assert.Equal(t, "Good morning! It's 07:00. Let's get moving!", b.Fallback("Workout", "07:00"))
}
