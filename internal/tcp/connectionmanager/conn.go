package connectionmanager

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
)

var (
	ErrNotConnected     = errors.New("no pool connection")
	ErrConnectionClosed = errors.New("connection closed")
)

// Connection owns one pool socket. Reads happen on a single goroutine,
// writes after the handshake go through the outbound queue so that only
// one frame is ever on the wire at a time.
type Connection struct {
	conn     net.Conn
	reader   *bufio.Reader
	outbound chan outboundFrame

	closeOnce sync.Once
	closed    chan struct{}
}

type outboundFrame struct {
	frame []byte
	done  chan error
}

// NewConnection wraps an established socket
func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		conn:     conn,
		reader:   bufio.NewReaderSize(conn, codec.MaxFrameSize),
		outbound: make(chan outboundFrame),
		closed:   make(chan struct{}),
	}
}

// RemoteAddr returns the pool address this connection is bound to
func (c *Connection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// SendPacket writes p directly. Only used before WriteLoop runs.
func (c *Connection) SendPacket(p codec.Packet) error {
	return codec.WritePacket(c.conn, p)
}

// ReadPacket reads and decodes one framed packet
func (c *Connection) ReadPacket() (codec.Packet, error) {
	return codec.ReadPacket(c.reader)
}

// Enqueue hands frame to the write loop and waits until it has been
// written. A second caller blocks until the first frame is out.
func (c *Connection) Enqueue(ctx context.Context, frame []byte) error {
	f := outboundFrame{frame: frame, done: make(chan error, 1)}
	select {
	case c.outbound <- f:
	case <-c.closed:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-f.done:
		return err
	case <-c.closed:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteLoop drains the outbound queue until ctx ends, the connection is
// closed, or a write fails.
func (c *Connection) WriteLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			return ErrConnectionClosed
		case f := <-c.outbound:
			_, err := c.conn.Write(f.frame)
			f.done <- err
			if err != nil {
				return fmt.Errorf("failed to write frame: %w", err)
			}
		}
	}
}

// Close shuts the socket down in both directions and releases it. Safe to
// call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

// Done is closed once Close has been called
func (c *Connection) Done() <-chan struct{} {
	return c.closed
}

// ConnectionManager tracks the pool connection currently in use, if any
type ConnectionManager struct {
	mu      sync.RWMutex
	current *Connection
	Logger  primary.Logger
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger primary.Logger) *ConnectionManager {
	return &ConnectionManager{Logger: logger}
}

// Attach makes conn the target of outbound packets
func (cm *ConnectionManager) Attach(conn *Connection) {
	cm.mu.Lock()
	cm.current = conn
	cm.mu.Unlock()
	cm.Logger.Debug("Connection attached", "remote", conn.RemoteAddr())
}

// Detach forgets conn if it is still the current connection
func (cm *ConnectionManager) Detach(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.current == conn {
		cm.current = nil
	}
}

// GetConnection returns the current connection
func (cm *ConnectionManager) GetConnection() (*Connection, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.current, cm.current != nil
}

// Send encodes p and queues it on the current connection
func (cm *ConnectionManager) Send(ctx context.Context, p codec.Packet) error {
	conn, ok := cm.GetConnection()
	if !ok {
		return ErrNotConnected
	}
	frame, err := codec.Encode(p)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.Kind(), err)
	}
	return conn.Enqueue(ctx, frame)
}
