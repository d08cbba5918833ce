package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Probe modes.
const (
	ProbeAuto   = "auto"
	ProbeDu     = "du"
	ProbeNative = "native"
)

// Environment overrides, applied after the config file.
const (
	EnvHome         = "MACMOLE_HOME"
	EnvProbeMode    = "MACMOLE_PROBE_MODE"
	EnvProbeTimeout = "MACMOLE_PROBE_TIMEOUT"
)

// configRel is the config file location relative to the XDG config dirs.
var configRel = filepath.Join("macmole", "config.yaml")

// Settings holds everything configurable about a scan or cleanup run.
type Settings struct {
	// Home is the directory every scan and cleanup is confined to.
	Home string `yaml:"home"`

	// DryRun reports cleanup actions without performing them.
	DryRun bool `yaml:"dryRun"`

	Probe    ProbeSettings   `yaml:"probe"`
	Timeouts Timeouts        `yaml:"timeouts"`
	Catalog  CatalogSettings `yaml:"catalog"`
}

// ProbeSettings selects and bounds the size measurement.
type ProbeSettings struct {
	// Mode is one of "auto", "du" or "native".
	Mode string `yaml:"mode"`

	// Timeout bounds a single measurement.
	Timeout time.Duration `yaml:"timeout"`
}

// Timeouts bound the external maintenance commands.
type Timeouts struct {
	PackageCache   time.Duration `yaml:"packageCache"`
	ContainerPrune time.Duration `yaml:"containerPrune"`
	SimulatorPrune time.Duration `yaml:"simulatorPrune"`
}

// CatalogSettings adds user-defined targets to the built-in catalog.
type CatalogSettings struct {
	DotCaches []ScanTarget `yaml:"dotCaches"`
	Library   []ScanTarget `yaml:"library"`
}

// DefaultSettings returns the built-in defaults. Home is left empty and
// filled from the environment by Load.
func DefaultSettings() Settings {
	return Settings{
		Probe: ProbeSettings{
			Mode:    ProbeAuto,
			Timeout: 5 * time.Minute,
		},
		Timeouts: Timeouts{
			PackageCache:   60 * time.Second,
			ContainerPrune: 300 * time.Second,
			SimulatorPrune: 120 * time.Second,
		},
	}
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, configRel)
}

// Load builds Settings from defaults, an optional .env file in the working
// directory, a YAML config file and MACMOLE_* environment variables, in that
// order. An explicit path must exist; the default location is optional.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if path == "" {
		if found, err := xdg.SearchConfigFile(configRel); err == nil {
			path = found
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(data, &s); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&s); err != nil {
		return nil, err
	}

	if s.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		s.Home = home
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings for values the engine cannot work with.
func (s *Settings) Validate() error {
	if !filepath.IsAbs(s.Home) {
		return fmt.Errorf("home must be an absolute path, got %q", s.Home)
	}
	if home := filepath.Clean(s.Home); filepath.Dir(home) == home {
		return fmt.Errorf("home cannot be the filesystem root, got %q", s.Home)
	}
	switch s.Probe.Mode {
	case ProbeAuto, ProbeDu, ProbeNative:
	default:
		return fmt.Errorf("probe.mode must be one of auto, du, native; got %q", s.Probe.Mode)
	}
	if s.Probe.Timeout <= 0 {
		return errors.New("probe.timeout must be positive")
	}
	if s.Timeouts.PackageCache <= 0 || s.Timeouts.ContainerPrune <= 0 || s.Timeouts.SimulatorPrune <= 0 {
		return errors.New("command timeouts must be positive")
	}
	for _, t := range append(append([]ScanTarget(nil), s.Catalog.DotCaches...), s.Catalog.Library...) {
		if filepath.IsAbs(t.RelativePath) {
			return fmt.Errorf("catalog target %q: path must be relative to home", t.Key)
		}
	}
	return nil
}

// BuildCatalog returns the default catalog extended with configured targets.
func (s *Settings) BuildCatalog() Catalog {
	return DefaultCatalog().Merge(s.Catalog.DotCaches, s.Catalog.Library)
}

func decode(data []byte, s *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs without overriding the process
// environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(s *Settings) error {
	if v := os.Getenv(EnvHome); v != "" {
		s.Home = v
	}
	if v := os.Getenv(EnvProbeMode); v != "" {
		s.Probe.Mode = v
	}
	if v := os.Getenv(EnvProbeTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvProbeTimeout, err)
		}
		s.Probe.Timeout = d
	}
	return nil
}
