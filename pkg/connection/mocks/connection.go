package mocks

import (
	"context"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/stretchr/testify/mock"
)

// Broker is a mock implementation of the connection.Broker interface for testing
type Broker struct {
	mock.Mock
}

func (m *Broker) IsSupported(clientName string) bool {
	args := m.Called(clientName)

	return args.Bool(0)
}

func (m *Broker) Clients() []connection.Client {
	args := m.Called()

	return args.Get(0).([]connection.Client)
}

func (m *Broker) Acquire(ctx context.Context, clientName string) (connection.Connection, error) {
	args := m.Called(ctx, clientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(connection.Connection), args.Error(1)
}

func (m *Broker) Invalidate(ctx context.Context, clientName string) {
	m.Called(ctx, clientName)
}

func (m *Broker) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// Connection is a mock implementation of the connection.Connection interface for testing
type Connection struct {
	mock.Mock
}

func (m *Connection) StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte) error {
	args := m.Called(ctx, collection, criteria, resumptionToken)

	return args.Error(0)
}

func (m *Connection) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// Connector is a mock implementation of the connection.Connector interface for testing
type Connector struct {
	mock.Mock
}

func (m *Connector) Connect(ctx context.Context, clientName string, endpoint connection.Endpoint) (connection.Connection, error) {
	args := m.Called(ctx, clientName, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(connection.Connection), args.Error(1)
}
