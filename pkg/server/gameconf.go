package server

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// GameConf holds game-level configuration parameters, loaded from YAML.
type GameConf struct {
	// --- Identity ---
	MudName string `yaml:"mud_name"`
	Port    int    `yaml:"port"`

	// --- World ---
	StartRoom    int    `yaml:"start_room"` // vnum of the room new characters appear in
	BlueprintDir string `yaml:"blueprint_dir"`
	DataPath     string `yaml:"data_path"` // bbolt file, empty = no persistence
	WatchBlueprints bool `yaml:"watch_blueprints"`

	// --- Rules ---
	// PutCapacityEnforced makes put refuse items once a container is at
	// capacity. When false, put bypasses the capacity check and only
	// get/move-by-spawn enforce it.
	PutCapacityEnforced *bool `yaml:"put_capacity_enforced"`
	WizLevel            int   `yaml:"wiz_level"` // minimum level for @-commands

	// --- Idle/timeout ---
	IdleTimeout int `yaml:"idle_timeout"` // seconds, 0 = never

	// --- Web ---
	WebEnabled bool `yaml:"web_enabled"`
	WebPort    int  `yaml:"web_port"`
	WebHost    string `yaml:"web_host"`

	// --- Metrics ---
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// --- Logging ---
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "text" or "json"
}

// DefaultGameConf returns a GameConf with playable defaults.
func DefaultGameConf() *GameConf {
	return &GameConf{
		MudName:      "GoEmberMUD",
		Port:         4000,
		StartRoom:    3001,
		BlueprintDir: "world",
		WizLevel:     30,
		IdleTimeout:  3600,
		WebEnabled:   false,
		WebPort:      8080,
		MetricsEnabled: true,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// LoadGameConf loads a YAML game config file, applying defaults for
// anything the file leaves out.
func LoadGameConf(path string) (*GameConf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	gc := DefaultGameConf()
	if err := yaml.Unmarshal(data, gc); err != nil {
		return nil, errors.Wrapf(err, "parsing YAML %s", path)
	}

	if gc.BlueprintDir != "" && !filepath.IsAbs(gc.BlueprintDir) {
		gc.BlueprintDir = filepath.Join(filepath.Dir(path), gc.BlueprintDir)
	}
	return gc, nil
}

// CapacityEnforced reports whether put honors container capacity.
// Defaults to true when the config does not say.
func (gc *GameConf) CapacityEnforced() bool {
	if gc == nil || gc.PutCapacityEnforced == nil {
		return true
	}
	return *gc.PutCapacityEnforced
}
