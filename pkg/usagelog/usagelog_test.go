package usagelog_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	registry := usagelog.NewRegistry(true,
		usagelog.Feature{Kind: usagelog.KindTrainingStartQuery, Name: "keyboard"},
	)

	cases := []struct {
		desc         string
		kind         usagelog.Kind
		feature      string
		known        bool
		shouldReject bool
	}{
		{
			desc:    "registered feature",
			kind:    usagelog.KindTrainingStartQuery,
			feature: "keyboard",
			known:   true,
		},
		{
			desc:         "unknown feature",
			kind:         usagelog.KindTrainingStartQuery,
			feature:      "smart-reply",
			shouldReject: true,
		},
		{
			desc:         "known name under different kind",
			kind:         usagelog.Kind("other_kind"),
			feature:      "keyboard",
			shouldReject: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.known, registry.IsKnown(tc.kind, tc.feature))
			assert.Equal(t, tc.shouldReject, registry.ShouldReject(tc.kind, tc.feature))
		})
	}
}

func TestRegistryPermissive(t *testing.T) {
	registry := usagelog.NewRegistry(false)

	assert.False(t, registry.IsKnown(usagelog.KindTrainingStartQuery, "anything"))
	assert.False(t, registry.ShouldReject(usagelog.KindTrainingStartQuery, "anything"))
}

func TestInMemoryRepositorySaveAndList(t *testing.T) {
	repo := usagelog.NewInMemoryRepository(usagelog.NewRegistry(false), true)
	ctx := context.Background()

	require.True(t, repo.Enabled())

	const total = 5
	for i := range total {
		entry := usagelog.Entry{
			ID:          uuid.NewString(),
			Kind:        usagelog.KindTrainingStartQuery,
			FeatureName: fmt.Sprintf("feature-%d", i),
			ClientName:  "app.example",
			RunID:       int64(i),
			CreatedAt:   time.Now().UTC(),
		}
		require.NoError(t, repo.Save(ctx, entry))
	}

	page, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(total), page.Total)
	require.Len(t, page.Entries, total)
	for i, e := range page.Entries {
		assert.Equal(t, fmt.Sprintf("feature-%d", i), e.FeatureName)
	}

	page, err = repo.List(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "feature-3", page.Entries[0].FeatureName)

	page, err = repo.List(ctx, 1, math.MaxUint64)
	require.NoError(t, err)
	require.Len(t, page.Entries, total-1)
	assert.Equal(t, "feature-1", page.Entries[0].FeatureName)
}

func TestInMemoryRepositoryDisabled(t *testing.T) {
	repo := usagelog.NewInMemoryRepository(usagelog.NewRegistry(false), false)
	ctx := context.Background()

	assert.False(t, repo.Enabled())
	require.NoError(t, repo.Save(ctx, usagelog.Entry{ID: uuid.NewString()}))

	page, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Entries)
}
