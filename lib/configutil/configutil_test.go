package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	StoreDir string `json:"store_dir"`
	Workers  int    `json:"workers"`
}

func TestReadConfigMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	err := os.WriteFile(name, []byte(`{
		// base config
		store_dir: ".dev/documents",
		workers: 4,
	}`), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		workers: 8,
	}`), 0644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, ".dev/documents", cfg.StoreDir)
	require.Equal(t, 8, cfg.Workers)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}
