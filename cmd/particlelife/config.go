package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/PrincetonUniversity/particlelife"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive OpenGL simulation.
	Output string

	// Input is the path of an HDF5 recording to replay in the OpenGL window
	// instead of simulating. Ignored when Output is set.
	Input string

	Count  int     // number of particles (rounded up to a power-of-two texture)
	Steps  int     // number of time steps (hdf5 only)
	Width  float64 // unit: pixel
	Height float64 // unit: pixel
	Seed   int64   // random seed, 0 for a time-based seed

	// Colors
	Palette    string  // possible values: random, noise
	NoiseScale float64 // unit: pixel (noise palette only)

	// Force law parameters
	Threshold  float64 // unit: pixel
	RMin       float64 // unit: 1
	Attraction float64 // unit: 1
	Damping    float64 // unit: 1, applied once per interacting pair
	Rate       float64 // unit: steps/second

	LogLevel string // possible values: debug, info, warn, error
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:     "",
	Input:      "",
	Count:      4000,
	Steps:      1000,
	Width:      1280,
	Height:     720,
	Seed:       0,
	Palette:    "random",
	NoiseScale: 300,
	Threshold:  particlelife.DefaultParams.Threshold,
	RMin:       particlelife.DefaultParams.RMin,
	Attraction: particlelife.DefaultParams.Attraction,
	Damping:    particlelife.DefaultParams.Damping,
	Rate:       particlelife.DefaultParams.Rate,
	LogLevel:   "info",
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := *DefaultConf
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("unknown config key %q", keys[0].String())
	}
	return &conf, conf.validate()
}

// validate checks the parameters that would make the simulation meaningless.
func (c *Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("bad world size %gx%g", c.Width, c.Height)
	case c.Count < 0:
		return fmt.Errorf("bad particle count %d", c.Count)
	case c.Threshold <= 0:
		return fmt.Errorf("bad threshold %g", c.Threshold)
	case c.RMin <= 0 || c.RMin >= 1:
		return fmt.Errorf("bad rmin %g (must be in (0, 1))", c.RMin)
	case c.Rate <= 0:
		return fmt.Errorf("bad rate %g", c.Rate)
	case c.Output != "" && c.Steps <= 0:
		return fmt.Errorf("bad number of steps %d", c.Steps)
	}
	switch c.Palette {
	case "random", "noise":
	default:
		return fmt.Errorf("bad palette %q", c.Palette)
	}
	return nil
}

// Params returns the force law parameters.
func (c *Config) Params() particlelife.Params {
	p := particlelife.DefaultParams
	p.Threshold = c.Threshold
	p.RMin = c.RMin
	p.Attraction = c.Attraction
	p.Damping = c.Damping
	p.Rate = c.Rate
	return p
}
