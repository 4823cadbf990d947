package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/logging"
)

// ErrBusy is returned by WritePulses while the previous frame is in flight
var ErrBusy = errors.New("bridge: previous frame still in flight")

// ErrClosed is returned once the connection to the bridge is gone
var ErrClosed = errors.New("bridge: connection closed")

// Client is a transmit.Peripheral backed by a remote bridge.
//
// WritePulses sends a pulses request and returns immediately; Done reports
// true once the bridge acknowledges it. A failure reported by the bridge is
// returned by Err (transmit.ErrorReporter).
type Client struct {
	url  string
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	nextID   uint64
	current  uint64 // ID of the pulses request in flight (0 = none)
	lastErr  error
	waiters  map[uint64]chan Reply
	closeErr error
	closed   chan struct{}
}

// Dial connects to a bridge websocket URL (ws://host:port/ws)
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge %s: %w", url, err)
	}

	c := &Client{
		url:     url,
		conn:    conn,
		waiters: make(map[uint64]chan Reply),
		closed:  make(chan struct{}),
	}
	go c.readLoop()

	logging.LogConnection(url, "bridge_connected")
	return c, nil
}

// URL returns the bridge URL
func (c *Client) URL() string {
	return c.url
}

// WritePulses implements transmit.Peripheral
func (c *Client) WritePulses(frame aeha.PulseFrame) error {
	c.mu.Lock()
	if c.closeErr != nil {
		err := c.closeErr
		c.mu.Unlock()
		return err
	}
	if c.current != 0 {
		c.mu.Unlock()
		return ErrBusy
	}
	c.nextID++
	id := c.nextID
	c.current = id
	c.lastErr = nil
	c.mu.Unlock()

	if err := c.write(NewPulsesRequest(id, frame)); err != nil {
		c.mu.Lock()
		c.current = 0
		c.mu.Unlock()
		return err
	}
	return nil
}

// Done implements transmit.Peripheral. A lost connection counts as done so
// callers don't poll forever; Err reports it.
func (c *Client) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == 0 || c.closeErr != nil
}

// Err implements transmit.ErrorReporter
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastErr != nil {
		err := c.lastErr
		c.lastErr = nil
		return err
	}
	if c.current != 0 && c.closeErr != nil {
		c.current = 0
		return c.closeErr
	}
	return nil
}

// SendCommand asks the bridge to encode and transmit cmd, and waits for the
// bridge to finish.
func (c *Client) SendCommand(ctx context.Context, cmd aeha.Command) error {
	c.mu.Lock()
	if c.closeErr != nil {
		err := c.closeErr
		c.mu.Unlock()
		return err
	}
	c.nextID++
	id := c.nextID
	ch := make(chan Reply, 1)
	c.waiters[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.waiters, id)
		c.mu.Unlock()
	}()

	if err := c.write(NewCommandRequest(id, cmd)); err != nil {
		return err
	}

	select {
	case reply := <-ch:
		return reply.err()
	case <-c.closed:
		return c.closedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the connection
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	err := c.conn.Close()
	<-c.closed
	return err
}

func (c *Client) write(req Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send %s request: %w", req.Type, err)
	}
	return nil
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

func (c *Client) readLoop() {
	defer close(c.closed)

	for {
		var reply Reply
		if err := c.conn.ReadJSON(&reply); err != nil {
			c.mu.Lock()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.closeErr = ErrClosed
			} else {
				c.closeErr = fmt.Errorf("%w: %v", ErrClosed, err)
			}
			c.mu.Unlock()
			logging.LogConnection(c.url, "bridge_disconnected")
			return
		}

		c.dispatch(reply)
	}
}

func (c *Client) dispatch(reply Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if reply.ID != 0 && reply.ID == c.current {
		c.current = 0
		c.lastErr = reply.err()
		return
	}
	if ch, ok := c.waiters[reply.ID]; ok {
		ch <- reply
		return
	}

	logging.Warn("Unexpected bridge reply",
		zap.String("type", reply.Type),
		zap.Uint64("id", reply.ID),
		zap.String("error", reply.Error),
	)
}
