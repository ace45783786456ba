package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWSBroadcast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens on the server goroutine after the handshake.
	require.Eventually(t, func() bool {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		return len(hub.clients) > 0
	}, 2*time.Second, 10*time.Millisecond)

	SendAssetCreated("V001", map[string]string{"vlcCode": "V001"}, "u1", "Back Office")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var update InventoryUpdate
	require.NoError(t, json.Unmarshal(msg, &update))
	assert.Equal(t, "VLC_ASSET_CREATED", update.Type)
	assert.Equal(t, "V001", update.VLCCode)
	assert.Equal(t, "Back Office", update.UserName)
}
