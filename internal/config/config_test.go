package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("base_dir: site\nlisten: 127.0.0.1:9000\nwatch: false\nlog_format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.BaseDir = "site"
	want.Listen = "127.0.0.1:9000"
	want.Watch = false
	want.LogFormat = "json"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(nil, &cfg))
	require.Equal(t, Default(), cfg)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	require.Error(t, Decode([]byte("base_directory: x\n"), &cfg))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxDepth = 0
	cfg.ModuleExtension = "blox"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Issues, 3)
	require.Contains(t, err.Error(), "max_depth must be positive, got 0")
}
