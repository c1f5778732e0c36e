package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClientExists(t *testing.T) {
	userServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/user123":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id": "user123", "name": "Test User 123"}`))
		case "/users/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer userServer.Close()

	client := NewClient(userServer.URL, zaptest.NewLogger(t))
	defer client.Close()

	t.Run("existing user", func(t *testing.T) {
		exists, err := client.Exists("user123")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown user", func(t *testing.T) {
		exists, err := client.Exists("nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unexpected status", func(t *testing.T) {
		_, err := client.Exists("broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("unreachable service", func(t *testing.T) {
		down := NewClient("http://127.0.0.1:1", zaptest.NewLogger(t))
		defer down.Close()

		_, err := down.Exists("user123")
		require.Error(t, err)
	})
}
