package publish

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultReloadEvent is the event a preview server listens on.
const DefaultReloadEvent = "reload"

// DefaultConnectTimeout bounds the wait for a socket.io connection.
const DefaultConnectTimeout = 10 * time.Second

// DefaultFlushDelay is how long Notify keeps the connection open after
// emitting so the packet leaves the write buffer.
const DefaultFlushDelay = 250 * time.Millisecond

// Conn is a connected notification channel.
type Conn interface {
	Emit(event string, payload any)
	Close()
}

// Dialer connects to a notification server.
type Dialer func(ctx context.Context, rawURL, namespace string, timeout time.Duration) (Conn, error)

// Notifier tells a running preview server that a new export is ready.
type Notifier struct {
	URL       string
	Namespace string
	Event     string        // DefaultReloadEvent when empty
	Timeout   time.Duration // DefaultConnectTimeout when zero
	Flush     time.Duration // DefaultFlushDelay when zero, none when negative
	Dial      Dialer        // DialSocketIO when nil
	Logger    logrus.FieldLogger
}

// Notify connects, emits one event carrying payload and disconnects.
func (n *Notifier) Notify(ctx context.Context, payload map[string]any) error {
	event := n.Event
	if event == "" {
		event = DefaultReloadEvent
	}
	timeout := n.Timeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	dial := n.Dial
	if dial == nil {
		dial = DialSocketIO
	}

	conn, err := dial(ctx, n.URL, n.Namespace, timeout)
	if err != nil {
		return fmt.Errorf("notify %s: %w", n.URL, err)
	}
	defer conn.Close()

	conn.Emit(event, payload)
	flush := n.Flush
	if flush == 0 {
		flush = DefaultFlushDelay
	}
	if flush > 0 {
		select {
		case <-time.After(flush):
		case <-ctx.Done():
		}
	}
	logger(n.Logger).WithFields(logrus.Fields{
		"url":   n.URL,
		"event": event,
	}).Info("Preview notified")
	return nil
}

type socketConn struct {
	io *socket.Socket
}

func (c socketConn) Emit(event string, payload any) { c.io.Emit(event, payload) }

func (c socketConn) Close() { c.io.Disconnect() }

// DialSocketIO opens a websocket socket.io connection and waits until it is
// established.
func DialSocketIO(ctx context.Context, rawURL, namespace string, timeout time.Duration) (Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("URL %q must include scheme and host", rawURL)
	}

	opts := socket.DefaultOptions()
	if u.Path != "" {
		opts.SetPath(u.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", u.Scheme, u.Host), opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		signal(connected, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		signal(connected, err)
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return socketConn{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// signal delivers the first connection outcome. Later outcomes, such as a
// reconnect after the dial gave up, are dropped instead of blocking the
// socket's event loop.
func signal(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
