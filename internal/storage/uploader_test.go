package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewUploader_Validation(t *testing.T) {
	t.Parallel()

	base := Config{
		Region:        "us-east-1",
		AccessKey:     "ak",
		SecretKey:     "sk",
		Bucket:        "generated-videos",
		PublicBaseURL: "https://cdn.example.com",
	}

	_, err := NewUploader(base)
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing bucket", func(c *Config) { c.Bucket = "" }},
		{"missing region", func(c *Config) { c.Region = "" }},
		{"missing access key", func(c *Config) { c.AccessKey = "" }},
		{"missing secret key", func(c *Config) { c.SecretKey = "" }},
		{"missing public base url", func(c *Config) { c.PublicBaseURL = "" }},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tc.mutate(&cfg)
			_, err := NewUploader(cfg)
			require.Error(t, err)
		})
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	u, err := NewUploader(Config{
		Region:        "us-east-1",
		AccessKey:     "ak",
		SecretKey:     "sk",
		Bucket:        "generated-videos",
		PublicBaseURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	u.now = func() time.Time {
		return time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	}

	key := u.objectKey("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.True(t, strings.HasPrefix(key, "videos/2026/02/"), key)
	require.Contains(t, key, "6ba7b810-9dad-11d1-80b4-00c04fd430c8-")
	require.True(t, strings.HasSuffix(key, ".mp4"))
}

func TestObjectKey_CustomPrefix(t *testing.T) {
	t.Parallel()

	u, err := NewUploader(Config{
		Region:        "us-east-1",
		AccessKey:     "ak",
		SecretKey:     "sk",
		Bucket:        "generated-videos",
		PublicBaseURL: "https://cdn.example.com",
		Prefix:        "/renders/",
	})
	require.NoError(t, err)

	key := u.objectKey("gen-1")
	require.True(t, strings.HasPrefix(key, "renders/"), key)
}

func TestFetchRemote(t *testing.T) {
	t.Parallel()

	payload := []byte("fake mp4 bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write(payload)
	}))
	defer srv.Close()

	data, err := FetchRemote(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestFetchRemote_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchRemote(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestFetchRemote_EmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := FetchRemote(context.Background(), srv.URL)
	require.Error(t, err)
}
