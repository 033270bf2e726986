// Package config loads the optional imx-otp-tool configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
)

// Config holds the settings shared by every command. Command line flags
// override values loaded from a file.
type Config struct {
	// Device is the nvmem device exposing the fuses.
	Device string `yaml:"device"`
	// SoCIDFile is read to check the running SoC before any fuse access.
	SoCIDFile string `yaml:"soc_id_file"`
	// FuseFile holds the desired SRK hash. Optional.
	FuseFile string `yaml:"fuse_file"`
	// Quiet suppresses progress messages.
	Quiet bool `yaml:"quiet"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device:    otp.DefaultDevicePath,
		SoCIDFile: otp.DefaultSoCIDPath,
	}
}

// Load reads a YAML configuration file on top of the defaults. Unknown keys
// are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML configuration data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("missing field: device")
	}
	if c.SoCIDFile == "" {
		return errors.New("missing field: soc_id_file")
	}
	return nil
}
