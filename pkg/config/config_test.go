package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, defaultOperations, cfg.GetOperations())
	assert.Equal(t, 64, cfg.GetTagBits())
	assert.Equal(t, 16, cfg.GetGroupSize())
	assert.Equal(t, 8, cfg.GetMergeThreshold())
	assert.Equal(t, 60, cfg.GetStatsWindowSeconds())
	assert.Equal(t, 1000, cfg.GetReportFrequencyMs())
	assert.Equal(t, 50, cfg.GetMix().Insert)
}

func TestLoad_Values(t *testing.T) {
	path := writeConfig(t, `
seed: 7
operations: 500
tag_bits: 16
group_size: 4
merge_threshold: 2
value_range: 1000
mix:
  insert: 3
  remove: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 500, cfg.GetOperations())
	assert.Equal(t, 16, cfg.GetTagBits())
	assert.Equal(t, 4, cfg.GetGroupSize())
	assert.Equal(t, 2, cfg.GetMergeThreshold())
	assert.Equal(t, int64(1000), cfg.GetValueRange())
	assert.Equal(t, OpMixConfig{Insert: 3, Remove: 1}, cfg.GetMix())
}

func TestLoad_SmallGroupSizeCapsDefaultMergeThreshold(t *testing.T) {
	cfg := &WorkloadConfig{GroupSize: 4}
	assert.Equal(t, 4, cfg.GetMergeThreshold())
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := writeConfig(t, "tag_bits: 4\n")
	_, err := Load(path)
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "TagBits", verrs[0].Field())

	path = writeConfig(t, "group_size: 4\nmerge_threshold: 5\n")
	_, err = Load(path)
	require.ErrorContains(t, err, "merge_threshold")

	path = writeConfig(t, "operations: [1, 2]\n")
	_, err = Load(path)
	require.ErrorContains(t, err, "parse config")
}
