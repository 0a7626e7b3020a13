// Package config handles configuration for locator-finder.
package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/locator-finder/pkg/core"
)

// Default file names, relative to the config file's directory.
const (
	DefaultDevicesFile  = "devices.json"
	DefaultAccountsFile = "accounts.json"
	DefaultOutputDir    = "captures"
)

// ConfigFileNames are the workspace config names, in lookup order.
var ConfigFileNames = []string{"locator-finder.yaml", "locator-finder.yml"}

var validate = validator.New()

// Config represents the workspace configuration (locator-finder.yaml).
type Config struct {
	// Automation server
	AppiumURL string `yaml:"appiumUrl" validate:"omitempty,url"`

	// Named entries in the devices and accounts stores
	Device  string `yaml:"device"`
	Account string `yaml:"account"`

	DevicesFile  string `yaml:"devicesFile"`
	AccountsFile string `yaml:"accountsFile"`
	OutputDir    string `yaml:"outputDir"`

	// Class chain anchor types; empty keeps the window default
	AnchorTypes []string `yaml:"anchorTypes" validate:"dive,required"`

	dir string
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.ErrMalformedStore.WithCause(err).
			WithDetails(map[string]interface{}{"key": path})
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, core.ErrInvalidRecord.WithCause(err).
			WithDetails(map[string]interface{}{"key": path})
	}

	cfg.dir = filepath.Dir(path)
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromDir looks for locator-finder.yaml or locator-finder.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return defaults rooted at dir
	cfg := &Config{dir: dir}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DevicesFile == "" {
		c.DevicesFile = DefaultDevicesFile
	}
	if c.AccountsFile == "" {
		c.AccountsFile = DefaultAccountsFile
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// Resolve returns p relative to the config file's directory.
// Absolute paths are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// DevicesPath returns the resolved devices store path.
func (c *Config) DevicesPath() string { return c.Resolve(c.DevicesFile) }

// AccountsPath returns the resolved accounts store path.
func (c *Config) AccountsPath() string { return c.Resolve(c.AccountsFile) }

// OutputPath returns the resolved capture output directory.
func (c *Config) OutputPath() string { return c.Resolve(c.OutputDir) }
