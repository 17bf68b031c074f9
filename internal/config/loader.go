package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".attackharvest"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the optional YAML configuration file. It supplies harvest
// defaults; explicit CLI flags always win over file values.
//
// Example:
//
//	selector: "#v-attckmatrix > .row"
//	workers: 5
//	wait: 1s
//	output: harvested
type File struct {
	// Selector overrides the default CSS selector.
	Selector string `yaml:"selector"`

	// Workers overrides the default fetch concurrency.
	Workers int `yaml:"workers"`

	// Wait overrides the default post-idle settle wait.
	Wait time.Duration `yaml:"wait"`

	// Output overrides the default text output directory.
	Output string `yaml:"output"`

	// Inputs overrides the default URL list files.
	Inputs []string `yaml:"inputs"`
}

// LoadConfigFile loads harvest defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified by
// the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .attackharvest in the current directory
// 3. Look for .attackharvest in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyFile merges file-supplied defaults into the config. Only fields the
// user did not set on the command line should be merged; the caller passes
// a set of flag names that were explicitly changed.
func (c *HarvestConfig) ApplyFile(cf *File, flagChanged func(string) bool) {
	if cf == nil {
		return
	}
	if cf.Selector != "" && !flagChanged("selector") {
		c.Selector = cf.Selector
	}
	if cf.Workers > 0 && !flagChanged("workers") {
		c.Workers = cf.Workers
	}
	if cf.Wait > 0 && !flagChanged("wait") {
		c.SettleWait = cf.Wait
	}
	if cf.Output != "" && !flagChanged("output") {
		c.OutputDir = cf.Output
	}
	if len(cf.Inputs) > 0 && !flagChanged("inputs") {
		c.InputFiles = cf.Inputs
	}
}
