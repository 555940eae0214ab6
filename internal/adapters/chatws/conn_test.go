package chatws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// A peer that stops reading stalls the write pump until the write
// deadline expires. The pump must close the socket on its way out so
// a read pump blocked on the still-live TCP connection is released
// and the session can tear down.
func TestWriteErrorClosesSocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	conns := make(chan *wsConn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := newWsConn(ws)
		c.writeWait = 50 * time.Millisecond
		conns <- c
		c.writePump(time.Minute)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := <-conns
	readErr := make(chan error, 1)
	go func() {
		_, err := c.ReadMessage()
		readErr <- err
	}()

	// The client never reads, so large writes back up in the kernel
	// buffers until the deadline fires and the pump exits on the
	// write error. No Close call happens on this path.
	payload := make([]byte, 1<<20)
	for i := 0; i < cap(c.send); i++ {
		if err := c.TrySend(payload); err != nil {
			break
		}
	}

	select {
	case err := <-readErr:
		require.Error(t, err)
	case <-time.After(testTimeout):
		t.Fatal("read still blocked after the write pump exited")
	}
}

// Buffered payloads queued before Close must reach the peer ahead of
// the close frame.
func TestCloseDrainsBufferedSends(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := newWsConn(ws)
		_ = c.TrySend([]byte("last words"))
		c.Close()
		c.writePump(time.Minute)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.SetReadDeadline(time.Now().Add(testTimeout)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "last words", string(data))

	_, _, err = client.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure),
		"expected a normal close after the drained payload, got %v", err)
}
