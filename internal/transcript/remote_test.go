package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRef = VideoRef("dQw4w9WgXcQ")

func TestRemoteSourceFetch(t *testing.T) {
	var gotPath, gotLang, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLang = r.URL.Query().Get("lang")
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"video_id": "dQw4w9WgXcQ",
			"language": "en",
			"text": "never gonna give you up",
			"segments": [{"text": "never gonna", "start": 0, "duration": 2.5},
			             {"text": "give you up", "start": 2.5, "duration": 2.5}],
			"method": "api",
			"metadata": {"is_generated": false}
		}`))
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL+"/", "secret", 5*time.Second, nil)
	tr, err := src.Fetch(context.Background(), testRef, "en")
	require.NoError(t, err)

	assert.Equal(t, "/transcript/dQw4w9WgXcQ", gotPath)
	assert.Equal(t, "en", gotLang)
	assert.Equal(t, "secret", gotKey)

	assert.Equal(t, "dQw4w9WgXcQ", tr.VideoID)
	assert.Equal(t, "en", tr.Language)
	assert.Equal(t, "never gonna give you up", tr.Text)
	assert.Len(t, tr.Segments, 2)
	assert.Equal(t, "api", tr.Method)
}

func TestRemoteSourceDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-Key"), "no credential configured, header must be absent")
		w.Write([]byte(`{"segments": [{"text": "hi", "start": 0, "duration": 1}]}`))
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL, "", 5*time.Second, nil)
	tr, err := src.Fetch(context.Background(), testRef, "de")
	require.NoError(t, err)

	// Sparse payload falls back to request parameters and joined segments.
	assert.Equal(t, string(testRef), tr.VideoID)
	assert.Equal(t, "de", tr.Language)
	assert.Equal(t, "backend", tr.Method)
	assert.Equal(t, "hi", tr.Text)
}

func TestRemoteSourceStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"404 not found", 404, `{"error": "video not found"}`, ErrNotFound},
		{"422 language", 422, `{"detail": "language 'xx' not available"}`, ErrLanguageUnavailable},
		{"400 language", 400, `{"detail": "no Language track"}`, ErrLanguageUnavailable},
		{"400 other", 400, `{"detail": "malformed request"}`, ErrInvalidParameter},
		{"500 server error", 500, `oops`, ErrSourceUnavailable},
		{"503 unavailable", 503, ``, ErrSourceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := NewRemoteSource(srv.URL, "", 5*time.Second, nil)
			_, err := src.Fetch(context.Background(), testRef, "xx")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRemoteSourceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL, "", 20*time.Millisecond, nil)
	_, err := src.Fetch(context.Background(), testRef, "en")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestRemoteSourceCancellationPassesThrough(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	src := NewRemoteSource(srv.URL, "", 5*time.Second, nil)
	_, err := src.Fetch(ctx, testRef, "en")
	assert.ErrorIs(t, err, context.Canceled)
}
