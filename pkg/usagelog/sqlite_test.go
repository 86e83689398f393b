package usagelog_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqliteRepo(t *testing.T) usagelog.Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "usage_"+uuid.NewString()+".db")
	repo, err := usagelog.NewSqliteRepository(usagelog.NewRegistry(false), true, path)
	require.NoError(t, err)

	return repo
}

func TestSqliteRepositorySaveAndList(t *testing.T) {
	repo := newSqliteRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	const total = 4
	for i := range total {
		entry := usagelog.Entry{
			ID:             uuid.NewString(),
			Kind:           usagelog.KindTrainingStartQuery,
			FeatureName:    fmt.Sprintf("feature-%d", i),
			ClientName:     "app.example",
			PopulationName: "pop/keyboard",
			PolicyName:     "federation",
			RunID:          int64(i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Save(ctx, entry))
	}

	page, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(total), page.Total)
	require.Len(t, page.Entries, total)
	for i, e := range page.Entries {
		assert.Equal(t, fmt.Sprintf("feature-%d", i), e.FeatureName)
		assert.Equal(t, int64(i), e.RunID)
	}

	page, err = repo.List(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(total), page.Total)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "feature-2", page.Entries[0].FeatureName)
}

func TestSqliteRepositoryDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	repo, err := usagelog.NewSqliteRepository(usagelog.NewRegistry(false), false, path)
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, repo.Enabled())
	require.NoError(t, repo.Save(ctx, usagelog.Entry{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}))

	page, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
