package mocks

import (
	"context"

	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/stretchr/testify/mock"
)

// Repository is a mock implementation of the usagelog.Repository interface for testing
type Repository struct {
	mock.Mock
}

func (m *Repository) IsKnown(kind usagelog.Kind, featureName string) bool {
	args := m.Called(kind, featureName)

	return args.Bool(0)
}

func (m *Repository) ShouldReject(kind usagelog.Kind, featureName string) bool {
	args := m.Called(kind, featureName)

	return args.Bool(0)
}

func (m *Repository) Enabled() bool {
	args := m.Called()

	return args.Bool(0)
}

func (m *Repository) Save(ctx context.Context, entry usagelog.Entry) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

func (m *Repository) List(ctx context.Context, offset, limit uint64) (usagelog.Page, error) {
	args := m.Called(ctx, offset, limit)

	return args.Get(0).(usagelog.Page), args.Error(1)
}
