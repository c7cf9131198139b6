package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierops/parceltrack/internal/core"
)

func testMessage() core.Message {
	return core.Message{
		Recipient: "jan@example.com",
		Subject:   "Your parcel CN100 is ready",
		Body:      "Hi Jan, your parcel has been delivered.",
	}
}

func TestNewEmailClient(t *testing.T) {
	t.Run("requires gateway url", func(t *testing.T) {
		_, err := NewEmailClient(EmailConfig{})
		assert.Error(t, err)
	})

	t.Run("valid config", func(t *testing.T) {
		c, err := NewEmailClient(EmailConfig{GatewayURL: "http://relay.internal/send"})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestEmailClientSend(t *testing.T) {
	t.Run("posts the rendered payload", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		c, err := NewEmailClient(EmailConfig{GatewayURL: srv.URL, From: "noreply@courier.example"})
		require.NoError(t, err)

		require.NoError(t, c.Send(context.Background(), testMessage()))
		assert.Equal(t, "noreply@courier.example", got["from"])
		assert.Equal(t, "jan@example.com", got["to"])
		assert.Equal(t, "Your parcel CN100 is ready", got["subject"])
	})

	t.Run("retries then succeeds", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c, err := NewEmailClient(EmailConfig{GatewayURL: srv.URL, RetryLimit: 2})
		require.NoError(t, err)

		require.NoError(t, c.Send(context.Background(), testMessage()))
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("exhausted retries surface the gateway error", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			http.Error(w, "relay offline", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c, err := NewEmailClient(EmailConfig{GatewayURL: srv.URL, RetryLimit: 1})
		require.NoError(t, err)

		err = c.Send(context.Background(), testMessage())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, err := NewEmailClient(EmailConfig{GatewayURL: srv.URL, RetryLimit: 5})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = c.Send(ctx, testMessage())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
