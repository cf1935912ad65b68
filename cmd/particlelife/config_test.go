package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/particlelife"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfMatchesDefaultParams(t *testing.T) {
	assert.Equal(t, particlelife.DefaultParams, DefaultConf.Params())
	assert.Equal(t, 4000, DefaultConf.Count)
	assert.NoError(t, DefaultConf.validate())
}

func TestParseConfig(t *testing.T) {
	path := writeConfig(t, `
Count = 100
Width = 640
Height = 480
Palette = "noise"
Damping = 0.98
`)
	conf, err := ParseConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 100, conf.Count)
	assert.Equal(t, 640.0, conf.Width)
	assert.Equal(t, "noise", conf.Palette)
	assert.Equal(t, 0.98, conf.Params().Damping)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultConf.Threshold, conf.Threshold)
	assert.Equal(t, "info", conf.LogLevel)
	// defaults are not modified
	assert.Equal(t, 4000, DefaultConf.Count)
}

func TestParseConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `Particles = 10`,
		"bad palette":  `Palette = "plaid"`,
		"bad size":     `Width = 0`,
		"bad rmin":     `RMin = 1.5`,
		"no steps":     "Output = \"x.h5\"\nSteps = 0",
		"syntax error": `Count = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestSetup(t *testing.T) {
	conf := *DefaultConf
	conf.Count = 50
	conf.Seed = 9
	conf.Palette = "noise"
	conf.Threshold = 120

	s := setup(&conf, zap.NewNop())
	assert.Equal(t, 64, s.Len())
	assert.Equal(t, 120.0, s.Params.Threshold)
	assert.Equal(t, int64(9), conf.Seed)

	again := setup(&conf, zap.NewNop())
	assert.Equal(t, s.Pos, again.Pos)
	assert.Equal(t, s.Col, again.Col)
}

func TestSetupRecordsTimeSeed(t *testing.T) {
	conf := *DefaultConf
	conf.Count = 4
	setup(&conf, zap.NewNop())
	assert.NotZero(t, conf.Seed)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
