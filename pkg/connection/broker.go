package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	ErrUnsupportedClient = errors.New("client is not present in the routing table")
	ErrBrokerClosed      = errors.New("connection broker is closed")
)

// Endpoint describes where a backend client listens. The routing table maps
// client names to endpoints and is fixed at construction time.
type Endpoint struct {
	ChannelID string `json:"channel_id" toml:"channel_id"`
}

// Connection is an established, reusable channel to one backend client.
type Connection interface {
	// StartQuery forwards the raw query to the backend. An error means the
	// forwarding itself failed; the handle must then be discarded.
	StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte) error
	Close(ctx context.Context) error
}

// Connector is the opaque connect primitive: it either yields a live
// connection to the named client or fails.
type Connector interface {
	Connect(ctx context.Context, clientName string, endpoint Endpoint) (Connection, error)
}

// Broker owns at most one live connection per backend client. Connections
// are established lazily on first acquire, cached, and discarded whenever a
// bind or delegation failure is reported.
type Broker interface {
	// IsSupported reports whether the client appears in the routing table.
	IsSupported(clientName string) bool

	// Clients lists the routing table entries.
	Clients() []Client

	// Acquire returns the cached connection for the client, establishing one
	// if none is live. Concurrent acquires for the same client share a single
	// connect attempt.
	Acquire(ctx context.Context, clientName string) (Connection, error)

	// Invalidate discards the cached connection for the client so the next
	// acquire starts from a clean state.
	Invalidate(ctx context.Context, clientName string)

	// Close releases every cached connection. It is idempotent.
	Close(ctx context.Context) error
}

// Client is one routing table entry.
type Client struct {
	Name     string   `json:"name"     toml:"name"`
	Endpoint Endpoint `json:"endpoint" toml:"endpoint"`
}

type broker struct {
	connector Connector
	routes    map[string]Endpoint
	logger    *slog.Logger

	mu     sync.Mutex
	conns  map[string]Connection
	closed bool
	flight singleflight.Group
}

func NewBroker(connector Connector, routes map[string]Endpoint, logger *slog.Logger) Broker {
	return &broker{
		connector: connector,
		routes:    routes,
		logger:    logger,
		conns:     make(map[string]Connection),
	}
}

func (b *broker) IsSupported(clientName string) bool {
	_, ok := b.routes[clientName]

	return ok
}

func (b *broker) Clients() []Client {
	clients := make([]Client, 0, len(b.routes))
	for name, ep := range b.routes {
		clients = append(clients, Client{Name: name, Endpoint: ep})
	}

	return clients
}

func (b *broker) Acquire(ctx context.Context, clientName string) (Connection, error) {
	endpoint, ok := b.routes[clientName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedClient, clientName)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()

		return nil, ErrBrokerClosed
	}
	if conn, ok := b.conns[clientName]; ok {
		b.mu.Unlock()

		return conn, nil
	}
	b.mu.Unlock()

	// Coalesce concurrent connect attempts for the same client: only one
	// requester dials, the rest share the result.
	v, err, _ := b.flight.Do(clientName, func() (any, error) {
		b.mu.Lock()
		if conn, ok := b.conns[clientName]; ok {
			b.mu.Unlock()

			return conn, nil
		}
		b.mu.Unlock()

		conn, err := b.connector.Connect(ctx, clientName, endpoint)
		if err != nil {
			b.Invalidate(ctx, clientName)

			return nil, err
		}

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			if cerr := conn.Close(ctx); cerr != nil {
				b.logger.Warn("Failed to close connection during shutdown",
					slog.String("client", clientName), slog.Any("error", cerr))
			}

			return nil, ErrBrokerClosed
		}
		b.conns[clientName] = conn
		b.mu.Unlock()

		return conn, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(Connection), nil
}

func (b *broker) Invalidate(ctx context.Context, clientName string) {
	b.mu.Lock()
	conn, ok := b.conns[clientName]
	delete(b.conns, clientName)
	b.mu.Unlock()

	if !ok {
		return
	}
	if err := conn.Close(ctx); err != nil {
		b.logger.Warn("Failed to close invalidated connection",
			slog.String("client", clientName), slog.Any("error", err))
	}
}

func (b *broker) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()

		return nil
	}
	b.closed = true
	conns := b.conns
	b.conns = make(map[string]Connection)
	b.mu.Unlock()

	var errs []error
	for name, conn := range conns {
		if err := conn.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
