package tcp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/workmanager"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/connectionmanager"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/defs"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/handlers"
)

var (
	// ErrNoEndpoint means every configured server failed to resolve or connect
	ErrNoEndpoint = errors.New("no pool endpoint reachable")

	// ErrUnexpectedPacket is a packet kind the pool never sends to a client
	ErrUnexpectedPacket = errors.New("unexpected packet from pool")
)

// Resolver looks up the addresses of a pool host. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Dialer opens the socket. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// TCPClient keeps one pool connection alive, reconnecting with backoff
type TCPClient struct {
	servers     []string
	port        int
	dialTimeout time.Duration
	label       string
	threads     int
	hello       domain.HelloPayload
	entropy     io.Reader
	out         io.Writer

	resolver Resolver
	dialer   Dialer
	backoff  *Backoff

	workManager   workmanager.IWorkManager
	connectionMgr *connectionmanager.ConnectionManager
	logger        primary.Logger
	handlers      map[codec.Kind]primary.MessageHandler

	state     atomic.Int32
	sessionMu sync.RWMutex
	sessionID string
	server    string
}

// TCPClientOption configures a TCPClient
type TCPClientOption func(*TCPClient)

// WithServers sets the ordered list of pool hosts
func WithServers(servers ...string) TCPClientOption {
	return func(c *TCPClient) {
		c.servers = servers
	}
}

// WithPort sets the pool port
func WithPort(port int) TCPClientOption {
	return func(c *TCPClient) {
		c.port = port
	}
}

// WithDialTimeout bounds each connect attempt
func WithDialTimeout(d time.Duration) TCPClientOption {
	return func(c *TCPClient) {
		c.dialTimeout = d
	}
}

// WithLabel sets the worker label sent after Hello
func WithLabel(label string) TCPClientOption {
	return func(c *TCPClient) {
		c.label = label
	}
}

// WithBackoff replaces the reconnect backoff
func WithBackoff(b *Backoff) TCPClientOption {
	return func(c *TCPClient) {
		c.backoff = b
	}
}

// WithEntropy replaces the source of session entropy
func WithEntropy(r io.Reader) TCPClientOption {
	return func(c *TCPClient) {
		c.entropy = r
	}
}

// WithResolver replaces the host resolver
func WithResolver(r Resolver) TCPClientOption {
	return func(c *TCPClient) {
		c.resolver = r
	}
}

// WithDialer replaces the socket dialer
func WithDialer(d Dialer) TCPClientOption {
	return func(c *TCPClient) {
		c.dialer = d
	}
}

// WithOutput sets where operator messages from the pool are printed
func WithOutput(w io.Writer) TCPClientOption {
	return func(c *TCPClient) {
		c.out = w
	}
}

// NewTCPClient creates a client announcing hello. The thread count of the
// pool it spins up is hello.Threads.
func NewTCPClient(
	hello domain.HelloPayload,
	workManager workmanager.IWorkManager,
	connectionMgr *connectionmanager.ConnectionManager,
	logger primary.Logger,
	options ...TCPClientOption,
) *TCPClient {
	client := &TCPClient{
		servers:       defs.DefaultServers,
		port:          defs.DefaultPort,
		dialTimeout:   defs.DialTimeout,
		threads:       int(hello.Threads),
		hello:         hello,
		entropy:       rand.Reader,
		out:           os.Stdout,
		resolver:      net.DefaultResolver,
		backoff:       NewBackoff(defs.BackoffIncrement, defs.BackoffMax),
		workManager:   workManager,
		connectionMgr: connectionMgr,
		logger:        logger,
	}

	for _, option := range options {
		option(client)
	}
	if client.dialer == nil {
		client.dialer = &net.Dialer{Timeout: client.dialTimeout}
	}

	client.setupMessageHandlers()

	return client
}

// setupMessageHandlers registers the handler for every kind the pool may send
func (c *TCPClient) setupMessageHandlers() {
	ack := &handlers.AckHandler{Logger: c.logger}
	c.handlers = map[codec.Kind]primary.MessageHandler{
		codec.KindWork:     &handlers.WorkHandler{WorkManager: c.workManager, Logger: c.logger},
		codec.KindMessage:  &handlers.ServerMessageHandler{Out: c.out, Logger: c.logger},
		codec.KindHelloAck: ack,
		codec.KindAck:      ack,
		codec.KindNop:      ack,
	}
}

// State returns the current connection state
func (c *TCPClient) State() State {
	return State(c.state.Load())
}

// StateName is State as text
func (c *TCPClient) StateName() string {
	return c.State().String()
}

// SessionID identifies the current or last connection attempt
func (c *TCPClient) SessionID() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionID
}

// Server is the address of the current connection, empty when disconnected
func (c *TCPClient) Server() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.server
}

func (c *TCPClient) setState(s State) {
	prev := State(c.state.Swap(int32(s)))
	if prev != s {
		c.logger.Debug("Connection state", "from", prev.String(), "to", s.String(), "session", c.SessionID())
	}
}

func (c *TCPClient) setSession(id, server string) {
	c.sessionMu.Lock()
	c.sessionID = id
	c.server = server
	c.sessionMu.Unlock()
}

func (c *TCPClient) setServer(server string) {
	c.sessionMu.Lock()
	c.server = server
	c.sessionMu.Unlock()
}

// Run connects, mines and reconnects until ctx is cancelled. Every cycle
// starts a fresh thread pool and fresh session entropy.
func (c *TCPClient) Run(ctx context.Context) error {
	for {
		if err := c.hello.Randomize(c.entropy); err != nil {
			return err
		}

		c.workManager.SpinUp(ctx, c.threads)
		err := c.runSession(ctx)
		c.workManager.Stop()
		c.setServer("")
		c.setState(StateDisconnected)

		if ctx.Err() != nil {
			c.logger.Info("Client stopped", "session", c.SessionID())
			return nil
		}

		wait := c.backoff.Next(c.hello.Entropy[0])
		c.logger.Warn("Connection closed", "session", c.SessionID(), "error", err, "retry_in", wait.String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// runSession performs one connect, handshake and read/write cycle. It
// always returns a non-nil error describing why the session ended.
func (c *TCPClient) runSession(ctx context.Context) error {
	c.setSession(uuid.NewString(), "")

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		c.setState(StateClosing)
		c.connectionMgr.Detach(conn)
		if err := conn.Close(); err != nil {
			c.logger.Debug("Failed to close connection", "error", err)
		}
	}()
	c.setServer(conn.RemoteAddr())

	c.setState(StateHandshaking)
	if err := c.handshake(conn); err != nil {
		return err
	}

	c.connectionMgr.Attach(conn)
	c.setState(StateConnected)
	c.logger.Info("Connected to pool", "server", conn.RemoteAddr(), "session", c.SessionID())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return conn.WriteLoop(gctx)
	})
	g.Go(func() error {
		return c.readLoop(gctx, conn)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-conn.Done():
		}
		return conn.Close()
	})
	return g.Wait()
}

// connect tries every server in order, every address of every server, and
// returns the first socket that opens.
func (c *TCPClient) connect(ctx context.Context) (*connectionmanager.Connection, error) {
	port := strconv.Itoa(c.port)
	for _, host := range c.servers {
		c.setState(StateResolving)
		addrs, err := c.resolver.LookupHost(ctx, host)
		if err != nil {
			c.logger.Warn("Failed to resolve pool host", "host", host, "error", err)
			continue
		}

		c.setState(StateConnecting)
		for _, addr := range addrs {
			dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
			nc, err := c.dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(addr, port))
			cancel()
			if err != nil {
				c.logger.Warn("Failed to connect to pool", "host", host, "addr", addr, "error", err)
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			return connectionmanager.NewConnection(nc), nil
		}
	}
	return nil, fmt.Errorf("%w: tried %d servers", ErrNoEndpoint, len(c.servers))
}

// handshake sends Hello and, when a label is set, ClientLabel
func (c *TCPClient) handshake(conn *connectionmanager.Connection) error {
	if err := conn.SendPacket(&codec.Hello{HelloPayload: c.hello}); err != nil {
		return fmt.Errorf("failed to send hello: %w", err)
	}
	if c.label != "" {
		if err := conn.SendPacket(&codec.ClientLabel{Label: c.label}); err != nil {
			return fmt.Errorf("failed to send label: %w", err)
		}
	}
	return nil
}

// readLoop decodes packets until the connection fails. Any decode error or
// packet without a handler ends the session.
func (c *TCPClient) readLoop(ctx context.Context, conn *connectionmanager.Connection) error {
	for {
		packet, err := conn.ReadPacket()
		if err != nil {
			return fmt.Errorf("failed to read packet: %w", err)
		}

		handler, ok := c.handlers[packet.Kind()]
		if !ok {
			c.logger.Error("Unexpected packet", "kind", packet.Kind().String())
			return fmt.Errorf("%w: %s", ErrUnexpectedPacket, packet.Kind())
		}

		if err := handler.HandleMessage(ctx, packet); err != nil {
			c.logger.Error("Error handling packet", "kind", packet.Kind().String(), "error", err)
			return err
		}
	}
}
