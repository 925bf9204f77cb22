package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatch_PostsPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(map[Category]string{CategoryUGCProduct: srv.URL})

	err := c.Dispatch(context.Background(), CategoryUGCProduct, map[string]any{"generationId": "gen-1"})
	require.NoError(t, err)
	require.Equal(t, "gen-1", received["generationId"])
}

func TestDispatch_NotConfigured(t *testing.T) {
	c := NewClient(map[Category]string{CategoryUGCProduct: "  "})

	err := c.Dispatch(context.Background(), CategoryUGCProduct, map[string]any{})
	require.ErrorIs(t, err, ErrWebhookNotConfigured)

	err = c.Dispatch(context.Background(), CategoryServiceBusiness, map[string]any{})
	require.ErrorIs(t, err, ErrWebhookNotConfigured)
}

func TestDispatch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(map[Category]string{CategoryUGCProduct: srv.URL})

	err := c.Dispatch(context.Background(), CategoryUGCProduct, map[string]any{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestForward_ReturnsUpstreamJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"queued":true,"id":"abc"}`))
	}))
	defer srv.Close()

	c := NewClient(nil)

	out, err := c.Forward(context.Background(), srv.URL, map[string]any{"hello": "world"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "abc", decoded["id"])
}

func TestForward_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(nil)

	out, err := c.Forward(context.Background(), srv.URL, map[string]any{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(out))
}

func TestForward_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(nil)

	_, err := c.Forward(context.Background(), srv.URL, map[string]any{})
	require.Error(t, err)
}
