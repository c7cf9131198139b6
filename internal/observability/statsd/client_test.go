package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenUDP(t *testing.T) (*net.UDPConn, string) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, conn.LocalAddr().String()
}

func readLine(t *testing.T, conn *net.UDPConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClientCount(t *testing.T) {
	conn, addr := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "parceltrack."})
	require.NoError(t, err)
	defer client.Close()

	client.Count("sweep.notified", 3, nil)
	assert.Equal(t, "parceltrack.sweep.notified:3|c", readLine(t, conn))
}

func TestClientTiming(t *testing.T) {
	conn, addr := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Timing("sweep.tick", 1500*time.Millisecond, nil)
	assert.Equal(t, "sweep.tick:1500|ms", readLine(t, conn))
}

func TestClientTags(t *testing.T) {
	conn, addr := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Count("dispatch.sent", 1, map[string]string{"action": "email", "service": "pe"})
	assert.Equal(t, "dispatch.sent:1|c|#action:email,service:pe", readLine(t, conn))
}

func TestClientDisabled(t *testing.T) {
	t.Run("disabled flag", func(t *testing.T) {
		client, err := NewClient(Config{Enabled: false, Address: "localhost:8125"})
		require.NoError(t, err)
		// Must be a harmless no-op.
		client.Count("x", 1, nil)
		assert.NoError(t, client.Close())
	})

	t.Run("blank address disables", func(t *testing.T) {
		client, err := NewClient(Config{Enabled: true, Address: "  "})
		require.NoError(t, err)
		client.Count("x", 1, nil)
		assert.NoError(t, client.Close())
	})
}

func TestFormatTags(t *testing.T) {
	assert.Empty(t, formatTags(nil))
	assert.Empty(t, formatTags(map[string]string{}))
	assert.Equal(t, "|#a:1,b:2", formatTags(map[string]string{"b": "2", "a": "1"}))
}

func TestSanitizePrefix(t *testing.T) {
	assert.Equal(t, "parceltrack", sanitizePrefix(" parceltrack. "))
	assert.Empty(t, sanitizePrefix("  "))
}
