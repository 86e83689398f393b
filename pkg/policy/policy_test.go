package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIndex(t *testing.T) {
	content := `
[[policies]]
name = "federation"

[policies.configs.federatedCompute]
minSecAggRoundSize = "2"

[[policies]]
name = "federation"

[policies.configs.federatedCompute]
minSecAggRoundSize = "0"

[[policies]]
name = "telemetry"

[policies.configs.telemetry]
upload = "never"
`
	path := filepath.Join(t.TempDir(), "policies.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ix, err := policy.LoadIndex(path)
	require.NoError(t, err)

	versions := ix.Lookup("federation")
	require.Len(t, versions, 2)
	assert.Equal(t, "2", versions[0].Configs[policy.NamespaceFederatedCompute][policy.KeyMinSecAggRoundSize])
	assert.Equal(t, "0", versions[1].Configs[policy.NamespaceFederatedCompute][policy.KeyMinSecAggRoundSize])

	assert.Len(t, ix.Lookup("telemetry"), 1)
	assert.Empty(t, ix.Lookup("unknown"))

	page := ix.List(0, 10)
	assert.Equal(t, uint64(3), page.Total)
}

func TestLoadIndexMissingFile(t *testing.T) {
	_, err := policy.LoadIndex(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
