package connection_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRoutes(t *testing.T) {
	content := `
[[clients]]
name = "app.example"

[clients.endpoint]
channel_id = "chan-1"

[[clients]]
name = "app.other"

[clients.endpoint]
channel_id = "chan-2"
`
	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	routes, err := connection.LoadRoutes(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]connection.Endpoint{
		"app.example": {ChannelID: "chan-1"},
		"app.other":   {ChannelID: "chan-2"},
	}, routes)
}

func TestLoadRoutesMissingFile(t *testing.T) {
	_, err := connection.LoadRoutes(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRoutesInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte("clients = [[["), 0o644))

	_, err := connection.LoadRoutes(path)
	assert.Error(t, err)
}
