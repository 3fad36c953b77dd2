package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	closeGracePeriod = time.Second
	maxMessageSize   = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// WebSocketConn is a Conn over a websocket. Each message is one text frame.
type WebSocketConn struct {
	ws *websocket.Conn

	wmu       sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// NewWebSocketConn wraps an established websocket.
func NewWebSocketConn(ws *websocket.Conn) *WebSocketConn {
	ws.SetReadLimit(maxMessageSize)
	return &WebSocketConn{ws: ws, closed: make(chan struct{})}
}

// Dial opens a websocket to url.
func Dial(ctx context.Context, url string, header http.Header) (*WebSocketConn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, errors.Join(err, errors.New("handshake: "+resp.Status))
		}
		return nil, err
	}
	log.Debugf("Dialed %s", url)
	return NewWebSocketConn(ws), nil
}

// Accept upgrades an HTTP request to a websocket Conn. On failure the
// upgrader has already replied to the client.
func Accept(w http.ResponseWriter, r *http.Request) (*WebSocketConn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	log.Debugf("Accepted websocket from %s", r.RemoteAddr)
	return NewWebSocketConn(ws), nil
}

// Send writes msg as a single text frame.
func (c *WebSocketConn) Send(ctx context.Context, msg []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	stop := c.watch(ctx, c.ws.SetWriteDeadline)
	err := c.ws.WriteMessage(websocket.TextMessage, msg)
	return c.result(ctx, stop(), err)
}

// Receive blocks for the next data frame. Once a Receive fails, including
// by ctx cancellation, further reads on the connection fail too.
func (c *WebSocketConn) Receive(ctx context.Context) ([]byte, error) {
	stop := c.watch(ctx, c.ws.SetReadDeadline)
	_, msg, err := c.ws.ReadMessage()
	if err = c.result(ctx, stop(), err); err != nil {
		return nil, err
	}
	return msg, nil
}

// Close sends a close frame and closes the underlying connection.
func (c *WebSocketConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.wmu.Lock()
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod),
		)
		c.wmu.Unlock()
		err = c.ws.Close()
	})
	return err
}

// watch applies ctx's deadline via set and interrupts the pending call
// when ctx is cancelled. The returned func stops watching and reports
// whether ctx fired.
func (c *WebSocketConn) watch(ctx context.Context, set func(time.Time) error) func() bool {
	deadline, _ := ctx.Deadline()
	_ = set(deadline)

	if ctx.Done() == nil {
		return func() bool { return false }
	}
	done := make(chan struct{})
	fired := make(chan bool, 1)
	go func() {
		select {
		case <-ctx.Done():
			_ = set(time.Now())
			fired <- true
		case <-done:
			fired <- false
		}
	}()
	return func() bool {
		close(done)
		return <-fired
	}
}

func (c *WebSocketConn) result(ctx context.Context, cancelled bool, err error) error {
	if err == nil {
		return nil
	}
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	if cancelled || ctx.Err() != nil {
		return ctx.Err()
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return ErrClosed
	}
	return err
}
