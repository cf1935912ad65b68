// Command particlelife runs particle life simulations.
//
// Usage
//
// The particlelife command takes one optional argument:
//
//	particlelife [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
//
// Config file
//
// All keys are optional and default to the values of DefaultConf.
// Setting Output records Steps steps to an HDF5 file without opening a window.
// Setting Input replays such a recording in the window.
//
//	Count = 8000
//	Width = 1920
//	Height = 1080
//	Palette = "noise"
//	Output = "runs/8k.h5"
//
// Interactive mode
//
// In interactive mode, the simulation can be paused/resumed with space.
// While in pause, pressing right arrow will perform a single step.
// Pressing Esc or closing the window will quit.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/PrincetonUniversity/particlelife"
	"github.com/PrincetonUniversity/particlelife/hdf5"
	"github.com/PrincetonUniversity/particlelife/opengl"
	"go.uber.org/zap"
)

const usage = `Usage: particlelife [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		c := *DefaultConf
		conf = &c
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	log, err := newLogger(conf.LogLevel)
	if err != nil {
		Fatal(err)
	}
	defer log.Sync()

	if err := run(conf, log); err != nil {
		log.Sync()
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// run records, replays or displays a simulation depending on config.
func run(conf *Config, log *zap.Logger) error {
	switch {
	case conf.Output != "":
		s := setup(conf, log)
		return hdf5.Run(s, &hdf5.Config{
			Output: conf.Output,
			Steps:  conf.Steps,
			Step:   s.Step,
			Attrs:  conf,
			Log:    log,
		})

	case conf.Input != "":
		l, err := hdf5.NewLoader(conf.Input)
		if err != nil {
			return err
		}
		defer l.Close()
		width, height, err := l.Extents()
		if err != nil {
			log.Warn("no recorded world size, using config", zap.Error(err))
			width, height = conf.Width, conf.Height
		}
		s := particlelife.Empty(l.Len(), width, height)
		if err := l.Colors(s); err != nil {
			return err
		}
		log.Info("replaying", zap.String("input", conf.Input), zap.Int("particles", l.Len()), zap.Int("steps", l.Steps()))
		return opengl.Run(s, &opengl.Config{
			Title: "Particle Life - " + conf.Input,
			Step:  func() error { return l.Load(s) },
			Log:   log,
		})

	default:
		s := setup(conf, log)
		return opengl.Run(s, &opengl.Config{
			Log: log,
		})
	}
}

// setup initializes the state and parameters of all particles.
func setup(conf *Config, log *zap.Logger) *particlelife.Simulation {
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		conf.Seed = seed // recorded with the output
	}
	s := particlelife.New(conf.Count, conf.Width, conf.Height, rand.New(rand.NewSource(seed)))
	s.Params = conf.Params()

	if conf.Palette == "noise" {
		s.Paint(particlelife.NoisePalette(seed, conf.NoiseScale))
	}

	log.Info("simulation ready",
		zap.Int("requested", conf.Count),
		zap.Int("particles", s.Len()),
		zap.Int("texWidth", s.TexWidth),
		zap.Int("texHeight", s.TexHeight),
		zap.Int64("seed", seed),
		zap.String("palette", conf.Palette))
	return s
}
