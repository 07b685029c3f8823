// Package config loads the YAML configuration of the decoder commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/pd0mz/go-trunk/dmr"
)

// Input formats.
const (
	FormatPacked   = "packed"
	FormatUnpacked = "unpacked"
	FormatText     = "text"
	FormatSymbols  = "symbols"
	FormatPCAP     = "pcap"
)

var formats = map[string]bool{
	FormatPacked:   true,
	FormatUnpacked: true,
	FormatText:     true,
	FormatSymbols:  true,
	FormatPCAP:     true,
}

type Config struct {
	Logging Logging `yaml:"logging"`
	Input   Input   `yaml:"input"`
	DMR     DMR     `yaml:"dmr"`
	History History `yaml:"history"`
}

type Input struct {
	// Format of the input files, a bit stream format or
	// pcap for captured repeater network traffic.
	Format string `yaml:"format"`

	// Files to decode; "-" reads standard input.
	Files []string `yaml:"files"`

	// Listen is the UDP address DMRD packets are received on, when set
	// the input files are ignored.
	Listen string `yaml:"listen"`
}

type DMR struct {
	MaxSyncErrors int `yaml:"max_sync_errors"`
	Workers       int `yaml:"workers"`

	// Timeslot limits output to 1 or 2, 0 shows both.
	Timeslot int `yaml:"timeslot"`

	// ShowRaw also prints messages without a dedicated decoder.
	ShowRaw bool `yaml:"show_raw"`
}

type History struct {
	Size int `yaml:"size"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: Logging{
			Level:      "info",
			MaxSizeMB:  25,
			MaxAgeDays: 7,
			MaxBackups: 5,
		},
		Input: Input{Format: FormatPacked},
		DMR: DMR{
			MaxSyncErrors: dmr.DefaultMaxSyncErrors,
			Workers:       runtime.NumCPU(),
		},
		History: History{Size: 500},
	}
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configured values, filling in zero values where a
// default exists.
func (c *Config) Validate() error {
	if !formats[c.Input.Format] {
		return fmt.Errorf("config: unknown input format %q", c.Input.Format)
	}
	if c.DMR.MaxSyncErrors < 0 || c.DMR.MaxSyncErrors > 4 {
		return fmt.Errorf("config: max_sync_errors %d out of range 0-4", c.DMR.MaxSyncErrors)
	}
	if c.DMR.Workers <= 0 {
		c.DMR.Workers = runtime.NumCPU()
	}
	if c.DMR.Timeslot < 0 || c.DMR.Timeslot > 2 {
		return fmt.Errorf("config: timeslot %d, expected 0, 1 or 2", c.DMR.Timeslot)
	}
	if c.History.Size < 0 {
		return errors.New("config: negative history size")
	}
	return c.Logging.validate()
}

// Bytes returns the configuration as YAML.
func (c *Config) Bytes() ([]byte, error) {
	return yaml.Marshal(c)
}
