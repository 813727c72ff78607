package bus

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub.Router())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestCommandReply(t *testing.T) {
	hub := NewHub(func(text string) string { return "heard: " + text })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(Message{Kind: "command", Content: "what time is it"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "reply", msg.Kind)
	assert.Equal(t, "heard: what time is it", msg.Content)
}

func TestNoticeBroadcast(t *testing.T) {
	hub := NewHub(func(string) string { return "" })
	a := dialHub(t, hub)
	b := dialHub(t, hub)

	// Registration races the dial; command round-trips flush it.
	require.NoError(t, a.WriteJSON(Message{Kind: "command", Content: "ping"}))
	readMessage(t, a)
	require.NoError(t, b.WriteJSON(Message{Kind: "command", Content: "ping"}))
	readMessage(t, b)

	require.NoError(t, hub.ShowNotice("Reminder", "Reminder: Call mom"))
	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, "notice", msg.Kind)
		assert.Equal(t, "Reminder: Reminder: Call mom", msg.Content)
	}
}

func TestMalformedMessage(t *testing.T) {
	hub := NewHub(func(string) string { return "ok" })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))
	msg := readMessage(t, conn)
	assert.Equal(t, "reply", msg.Kind)
	assert.Contains(t, msg.Content, "couldn't read")
}
