package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForwardPostsEnvelope(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := New(srv.URL, 0, nil)
	ok := f.Forward(context.Background(), "estimate.created", json.RawMessage(`{"doc_id":"E1","total":100}`))

	require.True(t, ok)
	require.JSONEq(t, `{"type":"estimate.created","payload":{"doc_id":"E1","total":100}}`, string(got))
}

func TestForwardNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(srv.URL, 0, nil)
	require.False(t, f.Forward(context.Background(), "estimate.created", nil))
}

func TestForwardTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	f := New(srv.URL, 0, nil)
	require.False(t, f.Forward(context.Background(), "estimate.created", nil))
}

func TestForwardDisabledWithoutURL(t *testing.T) {
	f := New("", 0, nil)
	require.False(t, f.Enabled())
	require.False(t, f.Forward(context.Background(), "estimate.created", nil))
}
