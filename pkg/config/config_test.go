package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 40.0, cfg.Gap)
	assert.Equal(t, 100.0, cfg.Distance)
	assert.Equal(t, 24.0, cfg.LoopOffset)
	assert.Equal(t, 0.2, cfg.LinkNudge)
	assert.Equal(t, 9.0, cfg.ArrowOffset)
}

func TestParse_PartialOverride(t *testing.T) {
	cfg, err := Parse([]byte("gap: 60\nloopOffset: 30\n"))
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Gap)
	assert.Equal(t, 30.0, cfg.LoopOffset)
	assert.Equal(t, DefaultDistance, cfg.Distance, "absent keys keep defaults")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero gap", "gap: 0"},
		{"negative distance", "distance: -1"},
		{"negative arrow offset", "arrowOffset: -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, flowerrors.ErrInvalidConfig))
		})
	}

	_, err := Parse([]byte("gap: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "routing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("distance: 150\n"), 0644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.Distance)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))

	t.Setenv(EnvConfigPath, "/etc/flowroute.yaml")
	assert.Equal(t, "/etc/flowroute.yaml", ResolvePath("flag.yaml"))
}
