package connection_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/connection/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoutes = map[string]connection.Endpoint{
	"app.example": {ChannelID: "chan-1"},
	"app.other":   {ChannelID: "chan-2"},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBrokerIsSupported(t *testing.T) {
	b := connection.NewBroker(&mocks.Connector{}, testRoutes, discardLogger())

	assert.True(t, b.IsSupported("app.example"))
	assert.False(t, b.IsSupported("app.unknown"))
}

func TestBrokerClients(t *testing.T) {
	b := connection.NewBroker(&mocks.Connector{}, testRoutes, discardLogger())

	clients := b.Clients()
	assert.Len(t, clients, 2)

	names := make(map[string]connection.Endpoint, len(clients))
	for _, c := range clients {
		names[c.Name] = c.Endpoint
	}
	assert.Equal(t, testRoutes, names)
}

func TestBrokerAcquireUnsupportedClient(t *testing.T) {
	b := connection.NewBroker(&mocks.Connector{}, testRoutes, discardLogger())

	_, err := b.Acquire(context.Background(), "app.unknown")
	assert.ErrorIs(t, err, connection.ErrUnsupportedClient)
}

func TestBrokerAcquireCachesConnection(t *testing.T) {
	conn := new(mocks.Connection)
	connector := new(mocks.Connector)
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(conn, nil).Once()

	b := connection.NewBroker(connector, testRoutes, discardLogger())

	first, err := b.Acquire(context.Background(), "app.example")
	require.NoError(t, err)

	second, err := b.Acquire(context.Background(), "app.example")
	require.NoError(t, err)
	assert.Same(t, first, second)

	connector.AssertExpectations(t)
}

func TestBrokerAcquireConnectFailure(t *testing.T) {
	connector := new(mocks.Connector)
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(nil, assert.AnError)

	b := connection.NewBroker(connector, testRoutes, discardLogger())

	_, err := b.Acquire(context.Background(), "app.example")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBrokerAcquireAfterConnectFailureRetries(t *testing.T) {
	conn := new(mocks.Connection)
	connector := new(mocks.Connector)
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(nil, assert.AnError).Once()
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(conn, nil).Once()

	b := connection.NewBroker(connector, testRoutes, discardLogger())

	_, err := b.Acquire(context.Background(), "app.example")
	require.ErrorIs(t, err, assert.AnError)

	got, err := b.Acquire(context.Background(), "app.example")
	require.NoError(t, err)
	assert.Same(t, connection.Connection(conn), got)

	connector.AssertExpectations(t)
}

func TestBrokerInvalidateDropsCachedConnection(t *testing.T) {
	first := new(mocks.Connection)
	first.On("Close", context.Background()).Return(nil).Once()
	second := new(mocks.Connection)

	connector := new(mocks.Connector)
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(first, nil).Once()
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(second, nil).Once()

	b := connection.NewBroker(connector, testRoutes, discardLogger())

	got, err := b.Acquire(context.Background(), "app.example")
	require.NoError(t, err)
	assert.Same(t, connection.Connection(first), got)

	b.Invalidate(context.Background(), "app.example")

	got, err = b.Acquire(context.Background(), "app.example")
	require.NoError(t, err)
	assert.Same(t, connection.Connection(second), got)

	first.AssertExpectations(t)
	connector.AssertExpectations(t)
}

func TestBrokerInvalidateUnknownClientIsNoop(t *testing.T) {
	b := connection.NewBroker(&mocks.Connector{}, testRoutes, discardLogger())

	b.Invalidate(context.Background(), "app.example")
	b.Invalidate(context.Background(), "app.unknown")
}

// gateConnector blocks every connect attempt until released and counts how
// many attempts were made.
type gateConnector struct {
	release  chan struct{}
	attempts atomic.Int64
	conn     connection.Connection
}

func (g *gateConnector) Connect(_ context.Context, _ string, _ connection.Endpoint) (connection.Connection, error) {
	g.attempts.Add(1)
	<-g.release

	return g.conn, nil
}

func TestBrokerAcquireCoalescesConcurrentConnects(t *testing.T) {
	connector := &gateConnector{
		release: make(chan struct{}),
		conn:    new(mocks.Connection),
	}
	b := connection.NewBroker(connector, testRoutes, discardLogger())

	const waiters = 16
	results := make([]connection.Connection, waiters)

	var started, done sync.WaitGroup
	for i := range waiters {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			conn, err := b.Acquire(context.Background(), "app.example")
			assert.NoError(t, err)
			results[i] = conn
		}(i)
	}

	started.Wait()
	close(connector.release)
	done.Wait()

	assert.Equal(t, int64(1), connector.attempts.Load())
	for i := range waiters {
		assert.Same(t, connector.conn, results[i])
	}
}

func TestBrokerCloseIsIdempotent(t *testing.T) {
	conn := new(mocks.Connection)
	conn.On("Close", context.Background()).Return(nil).Once()

	connector := new(mocks.Connector)
	connector.On("Connect", context.Background(), "app.example", testRoutes["app.example"]).Return(conn, nil).Once()

	b := connection.NewBroker(connector, testRoutes, discardLogger())

	_, err := b.Acquire(context.Background(), "app.example")
	require.NoError(t, err)

	require.NoError(t, b.Close(context.Background()))
	require.NoError(t, b.Close(context.Background()))

	conn.AssertExpectations(t)
}

func TestBrokerAcquireAfterClose(t *testing.T) {
	b := connection.NewBroker(&mocks.Connector{}, testRoutes, discardLogger())

	require.NoError(t, b.Close(context.Background()))

	_, err := b.Acquire(context.Background(), "app.example")
	assert.ErrorIs(t, err, connection.ErrBrokerClosed)
}
