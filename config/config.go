// Package config loads the service configuration from YAML or JSON files
// with environment variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ambuflow/ambuflow/core/dispatch"
	"github.com/ambuflow/ambuflow/core/metrics"
	"github.com/ambuflow/ambuflow/core/model"
	"github.com/ambuflow/ambuflow/core/network"
)

type Config struct {
	Fleet    []FleetVehicle  `json:"fleet"`
	Network  NetworkConfig   `json:"network"`
	Dispatch dispatch.Config `json:"dispatch"`
	Metrics  metrics.Config  `json:"metrics"`
	API      APIConfig       `json:"api"`

	// Seed drives every random draw of a run. Zero seeds from the clock.
	Seed int64 `json:"seed"`
	// Incidents is the number of incidents generated per round.
	Incidents int `json:"incidents"`
}

// FleetVehicle is the on-disk shape of one ambulance.
type FleetVehicle struct {
	ID        string `json:"id"`
	Staff     int    `json:"staff"`
	Equipment int    `json:"equipment"`
	Supplies  int    `json:"supplies"`
}

// NetworkConfig selects the street network source and its random attributes.
// With File set the graph is loaded from JSON; otherwise a synthetic
// GridRows x GridCols grid is generated.
type NetworkConfig struct {
	File        string        `json:"file"`
	GridRows    int           `json:"grid_rows"`
	GridCols    int           `json:"grid_cols"`
	GridSpacing float64       `json:"grid_spacing_km"`
	Capacity    network.Range `json:"capacity_kmh"`
	Speed       network.Range `json:"required_speed_kmh"`
}

// APIConfig configures the HTTP surface of the serve command.
type APIConfig struct {
	Addr string `json:"addr"`
	// RetainRounds bounds the in-memory round history; zero keeps everything.
	RetainRounds int `json:"retain_rounds"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("AMBU_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ambu_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every zero field with the original model's defaults.
func (c *Config) SetDefaults() {
	if len(c.Fleet) == 0 {
		c.Fleet = DefaultFleet()
	}
	if c.Incidents == 0 {
		c.Incidents = 5
	}
	if c.Network.GridRows == 0 {
		c.Network.GridRows = 8
	}
	if c.Network.GridCols == 0 {
		c.Network.GridCols = 8
	}
	if c.Network.GridSpacing == 0 {
		c.Network.GridSpacing = 0.25
	}
	if c.Network.Capacity == (network.Range{}) {
		c.Network.Capacity = network.Range{Min: 50, Max: 100}
	}
	if c.Network.Speed == (network.Range{}) {
		c.Network.Speed = network.Range{Min: 20, Max: 50}
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	c.Dispatch.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Incidents < 1 {
		return fmt.Errorf("incidents must be positive, got %d", c.Incidents)
	}
	seen := make(map[string]bool, len(c.Fleet))
	for _, v := range c.Fleet {
		if seen[v.ID] {
			return fmt.Errorf("duplicate vehicle id %q", v.ID)
		}
		seen[v.ID] = true
	}
	if err := c.Network.Capacity.Validate(); err != nil {
		return fmt.Errorf("capacity %w", err)
	}
	if err := c.Network.Speed.Validate(); err != nil {
		return fmt.Errorf("required speed %w", err)
	}
	if err := c.Dispatch.Validate(); err != nil {
		return err
	}
	return nil
}

// Vehicles converts the fleet entries into domain vehicles.
func (c *Config) Vehicles() ([]model.Vehicle, error) {
	fleet := make([]model.Vehicle, 0, len(c.Fleet))
	for _, fv := range c.Fleet {
		v, err := model.NewVehicle(fv.ID, fv.Staff, fv.Equipment, fv.Supplies)
		if err != nil {
			return nil, fmt.Errorf("vehicle %q: %w", fv.ID, err)
		}
		fleet = append(fleet, v)
	}
	return fleet, nil
}

// DefaultFleet returns the 15-ambulance demo fleet.
func DefaultFleet() []FleetVehicle {
	return []FleetVehicle{
		{ID: "Amb_001", Staff: 3, Equipment: 5, Supplies: 10},
		{ID: "Amb_002", Staff: 5, Equipment: 8, Supplies: 15},
		{ID: "Amb_003", Staff: 7, Equipment: 12, Supplies: 20},
		{ID: "Amb_004", Staff: 10, Equipment: 15, Supplies: 25},
		{ID: "Amb_005", Staff: 2, Equipment: 3, Supplies: 5},
		{ID: "Amb_006", Staff: 4, Equipment: 6, Supplies: 12},
		{ID: "Amb_007", Staff: 6, Equipment: 10, Supplies: 18},
		{ID: "Amb_008", Staff: 8, Equipment: 14, Supplies: 22},
		{ID: "Amb_009", Staff: 3, Equipment: 4, Supplies: 8},
		{ID: "Amb_010", Staff: 12, Equipment: 18, Supplies: 30},
		{ID: "Amb_011", Staff: 5, Equipment: 7, Supplies: 13},
		{ID: "Amb_012", Staff: 2, Equipment: 5, Supplies: 7},
		{ID: "Amb_013", Staff: 7, Equipment: 9, Supplies: 16},
		{ID: "Amb_014", Staff: 9, Equipment: 13, Supplies: 24},
		{ID: "Amb_015", Staff: 1, Equipment: 2, Supplies: 4},
	}
}
