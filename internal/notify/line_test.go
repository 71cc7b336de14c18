package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineClient_Multicast(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/bot/message/multicast", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := NewLineClient(srv.URL, "token-123")
	err := c.Multicast(context.Background(), []string{"U1", "U2"}, "hello")
	require.NoError(t, err)
	require.Equal(t, "Bearer token-123", gotAuth)

	to, ok := gotBody["to"].([]interface{})
	require.True(t, ok)
	require.Len(t, to, 2)
	msgs, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 1)
	msg, ok := msgs[0].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "text", msg["type"])
	require.Equal(t, "hello", msg["text"])
}

func TestLineClient_PushErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/bot/message/push", r.URL.Path)
		http.Error(w, `{"message":"invalid user"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewLineClient(srv.URL, "token-123")
	err := c.Push(context.Background(), "U1", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}

func TestLineClient_NotConfigured(t *testing.T) {
	c := NewLineClient("http://unused", "")
	require.False(t, c.Configured())
	err := c.Push(context.Background(), "U1", "hello")
	require.ErrorIs(t, err, ErrNotConfigured)
}
