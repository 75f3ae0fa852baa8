// Package network carries protocol frames over websockets.
package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"

	"tetrecs/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1 << 20 // 1MB
)

var ErrClosed = errors.New("connection closed")

var upgrader = websocket.Upgrader{
	// Clients are terminals, not browsers; there is no origin to check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Conn is one websocket carrying text frames. Send is safe to call from
// several goroutines; ReadLoop must only run on one.
type Conn struct {
	ws  *websocket.Conn
	log slog.Logger

	mu        sync.Mutex // serializes writes
	closeOnce sync.Once
	done      chan struct{}
}

// Dial opens a client connection to url.
func Dial(ctx context.Context, url string, log slog.Logger) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return wrap(ws, log), nil
}

// Accept upgrades an HTTP request into a server side connection.
func Accept(w http.ResponseWriter, r *http.Request, log slog.Logger) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return wrap(ws, log), nil
}

func wrap(ws *websocket.Conn, log slog.Logger) *Conn {
	c := &Conn{
		ws:   ws,
		log:  logging.OrDisabled(log),
		done: make(chan struct{}),
	}

	// Basic timeouts + pong handling (keeps connections healthy)
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.pingLoop()
	return c
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
			if err != nil {
				c.log.Debugf("ping: %v", err)
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send writes one text frame.
func (c *Conn) Send(line string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	c.log.Tracef("send: %s", line)
	return nil
}

// ReadLoop calls fn with every text frame until the connection fails, the
// peer closes it or ctx is cancelled. A clean close returns nil.
func (c *Conn) ReadLoop(ctx context.Context, fn func(line string)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	for {
		msgType, msg, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			select {
			case <-c.done:
				return nil
			default:
			}
			return fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		line := strings.TrimRight(string(msg), "\r\n")
		c.log.Tracef("recv: %s", line)
		fn(line)
	}
}

// Close sends a close frame and releases the socket. It is safe to call
// more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		err = c.ws.Close()
	})
	return err
}

// Done is closed once Close has been called.
func (c *Conn) Done() <-chan struct{} { return c.done }
