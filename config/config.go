// Package config loads jbodsim settings from the environment.
//
// Settings are read from JBOD_* environment variables. Variables may also be
// placed in a .env file, which never overrides variables that are already
// set.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/mdadm"
)

// Prefix is the prefix of all environment variables.
const Prefix = "JBOD"

// DefaultEnvFile is loaded when it exists and no other file is given.
const DefaultEnvFile = ".env"

// maxCapacity is the size of the 32-bit array address space.
const maxCapacity = 1 << 32

// Config holds the settings of a simulated array.
type Config struct {
	NumDisks      int    `envconfig:"NUM_DISKS" default:"16"`
	BlocksPerDisk int    `envconfig:"BLOCKS_PER_DISK" default:"256"`
	BlockSize     int    `envconfig:"BLOCK_SIZE" default:"256"`
	MaxTransfer   int    `envconfig:"MAX_TRANSFER" default:"1024"`
	SignKey       string `envconfig:"SIGN_KEY"`
	Trace         bool   `envconfig:"TRACE" default:"false"`
	TraceDB       string `envconfig:"TRACE_DB"`
	Verbose       bool   `envconfig:"VERBOSE" default:"false"`
	MonitorPort   int    `envconfig:"MONITOR_PORT" default:"0"`
	OpenBrowser   bool   `envconfig:"OPEN_BROWSER" default:"false"`
}

// Load reads the env files and then the environment. Without env files,
// DefaultEnvFile is used if it exists.
func Load(envFiles ...string) (Config, error) {
	var cfg Config

	if len(envFiles) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFiles = []string{DefaultEnvFile}
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return cfg, fmt.Errorf("loading env files: %w", err)
		}
	}

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Geometry returns the disk geometry described by the config.
func (c Config) Geometry() jbod.Geometry {
	return jbod.Geometry{
		NumDisks:      c.NumDisks,
		BlocksPerDisk: c.BlocksPerDisk,
		BlockSize:     c.BlockSize,
	}
}

// Validate checks the config for values that cannot be simulated.
func (c Config) Validate() error {
	if err := c.Geometry().Validate(); err != nil {
		return err
	}

	if c.Geometry().Capacity() > maxCapacity {
		return fmt.Errorf("capacity of %s exceeds 32-bit addresses", c.Geometry())
	}

	if c.MaxTransfer <= 0 {
		return errors.New("max transfer must be positive")
	}

	if _, err := c.Signer(); err != nil {
		return err
	}

	return nil
}

// Signer returns a keyed HighwayHash signer if a sign key is set, and an
// xxHash signer otherwise. The key is hex encoded.
func (c Config) Signer() (jbod.Signer, error) {
	if c.SignKey == "" {
		return jbod.XXHashSigner{}, nil
	}

	key, err := hex.DecodeString(c.SignKey)
	if err != nil {
		return nil, fmt.Errorf("decoding sign key: %w", err)
	}

	signer, err := jbod.NewHighwayHashSigner(key)
	if err != nil {
		return nil, err
	}

	return signer, nil
}

// ArrayBuilder returns an mdadm builder configured with the settings.
func (c Config) ArrayBuilder() (mdadm.Builder, error) {
	signer, err := c.Signer()
	if err != nil {
		return mdadm.Builder{}, err
	}

	return mdadm.MakeBuilder().
		WithGeometry(c.Geometry()).
		WithSigner(signer).
		WithMaxTransfer(c.MaxTransfer), nil
}
