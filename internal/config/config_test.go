package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twc/internal/config"
	"twc/internal/panel"
	"twc/internal/transfer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, config.FallbackPath, cfg.Left.Path)
	assert.Equal(t, config.FallbackPredicate, cfg.Left.SortPredicate)
	assert.Equal(t, config.FallbackDirection, cfg.Right.SortDirection)
	assert.Equal(t, transfer.DefaultBufferSize, cfg.Settings.CopyBufferSize)
	assert.Equal(t, 60, cfg.Settings.TickIntervalMs)
}

func TestLoadValidFile(t *testing.T) {
	path := writeConfig(t, `
[left_panel]
path = "/var/log"
sort_predicate = "size"
sort_direction = "desc"

[right_panel]
path = "/home"

[settings]
show_hidden = true
tick_interval_ms = 120
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/log", cfg.Left.Path)
	assert.Equal(t, panel.SortKey{Predicate: panel.BySize, Direction: panel.Descending},
		cfg.Left.SortKey())

	// keys absent from the file keep their defaults
	assert.Equal(t, "/home", cfg.Right.Path)
	assert.Equal(t, config.FallbackPredicate, cfg.Right.SortPredicate)
	assert.True(t, cfg.Settings.ShowHidden)
	assert.Equal(t, 120, cfg.Settings.TickIntervalMs)
	assert.Equal(t, transfer.DefaultBufferSize, cfg.Settings.CopyBufferSize)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `left_panel = not [ valid toml`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestUnknownSortStringsFallBack(t *testing.T) {
	path := writeConfig(t, `
[left_panel]
sort_predicate = "colour"
sort_direction = "sideways"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, panel.DefaultSortKey(), cfg.Left.SortKey())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := config.Default()
	cfg.Left.Path = "/tmp"
	cfg.Left.SetSortKey(panel.SortKey{Predicate: panel.ByModified, Direction: panel.Descending})
	cfg.Right.Path = "/opt"
	cfg.Settings.ShowHidden = true

	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	// the sort key is persisted in its lowercase string form
	assert.Equal(t, "modified", loaded.Left.SortPredicate)
	assert.Equal(t, "desc", loaded.Left.SortDirection)
}

func TestSetSortKeyEncodesLowercase(t *testing.T) {
	var pc config.PanelConfig
	pc.SetSortKey(panel.SortKey{Predicate: panel.BySize, Direction: panel.Ascending})
	assert.Equal(t, "size", pc.SortPredicate)
	assert.Equal(t, "asc", pc.SortDirection)
}

func TestDefaultPathEndsWithConfigFile(t *testing.T) {
	assert.Equal(t, config.ConfigFileName, filepath.Base(config.DefaultPath()))
}
