package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambuflow/ambuflow/core/model"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
seed: 42
incidents: 3
fleet:
  - id: Amb_001
    staff: 3
    equipment: 5
    supplies: 10
network:
  grid_rows: 4
  grid_cols: 4
  capacity_kmh:
    min: 50
    max: 100
  required_speed_kmh:
    min: 20
    max: 50
dispatch:
  beta: 0.5
  gamma: 1.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 3, cfg.Incidents)
	require.Len(t, cfg.Fleet, 1)
	assert.Equal(t, "Amb_001", cfg.Fleet[0].ID)
	assert.Equal(t, 4, cfg.Network.GridRows)
	assert.Equal(t, 0.5, cfg.Dispatch.Beta)
	assert.Equal(t, ":8080", cfg.API.Addr, "default applied")
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"incidents": 2, "seed": 7}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Incidents)
	// The default fleet fills in when none is configured.
	assert.Len(t, cfg.Fleet, 15)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AMBU_INCIDENTS", "9")
	path := writeConfig(t, "config.yaml", `incidents: 3`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Incidents)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", `incidents = 3`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateVehicles(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
fleet:
  - id: Amb_001
  - id: Amb_001
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestVehiclesConversion(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	fleet, err := cfg.Vehicles()
	require.NoError(t, err)
	require.Len(t, fleet, 15)

	classes := map[model.Class]int{}
	for _, v := range fleet {
		classes[v.Class]++
	}
	assert.Equal(t, 4, classes[model.ClassCritical])
	assert.Equal(t, 6, classes[model.ClassMedium])
	assert.Equal(t, 4, classes[model.ClassLight])
	assert.Equal(t, 1, classes[model.ClassUnknown])
}
