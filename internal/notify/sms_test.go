package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierops/parceltrack/internal/core"
)

func TestNewSMSClient(t *testing.T) {
	t.Run("requires gateway url", func(t *testing.T) {
		_, err := NewSMSClient(SMSConfig{})
		assert.Error(t, err)
	})
}

func TestSMSClientSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewSMSClient(SMSConfig{GatewayURL: srv.URL, SenderID: "COURIER"})
	require.NoError(t, err)

	msg := core.Message{
		Recipient: "0412345678",
		Subject:   "ignored for sms",
		Body:      "Your parcel CN100 is ready for collection.",
	}
	require.NoError(t, c.Send(context.Background(), msg))

	assert.Equal(t, "COURIER", got["sender"])
	assert.Equal(t, "0412345678", got["to"])
	assert.Equal(t, msg.Body, got["text"])
	assert.NotContains(t, got, "subject")
}
