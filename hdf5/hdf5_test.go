package hdf5

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/particlelife"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attrs struct {
	Count  int
	Width  float64
	Height float64
	Note   string
}

func TestRecordAndReplay(t *testing.T) {
	const steps = 12
	path := filepath.Join(t.TempDir(), "out", "run.h5")

	sim := particlelife.New(60, 400, 300, rand.New(rand.NewSource(1)))
	ref := particlelife.New(60, 400, 300, rand.New(rand.NewSource(1)))

	err := Run(sim, &Config{
		Output: path,
		Steps:  steps,
		Attrs:  &attrs{Count: 60, Width: 400, Height: 300, Note: "test"},
	})
	require.NoError(t, err)

	l, err := NewLoader(path)
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, ref.Len(), l.Len())
	assert.Equal(t, steps, l.Steps())

	w, h, err := l.Extents()
	require.NoError(t, err)
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 300.0, h)

	replay := particlelife.Empty(l.Len(), 400, 300)
	require.NoError(t, l.Colors(replay))
	assert.Equal(t, ref.Col, replay.Col)

	// step k was recorded before the k-th step
	for k := 0; k < steps; k++ {
		require.NoError(t, l.Load(replay))
		require.Equal(t, ref.Pos, replay.Pos, "step %d", k)
		ref.Step()
	}

	// and then it cycles
	first := particlelife.New(60, 400, 300, rand.New(rand.NewSource(1)))
	require.NoError(t, l.Load(replay))
	assert.Equal(t, first.Pos, replay.Pos)
}

func TestLoaderRejectsMismatchedSimulation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.h5")
	sim := particlelife.New(16, 200, 200, rand.New(rand.NewSource(2)))
	require.NoError(t, Run(sim, &Config{Output: path, Steps: 2}))

	l, err := NewLoader(path)
	require.NoError(t, err)
	defer l.Close()

	// recorded without attributes
	_, _, err = l.Extents()
	assert.Error(t, err)

	other := particlelife.Empty(64, 200, 200)
	assert.Error(t, l.Load(other))
	assert.Error(t, l.Colors(other))
}

func TestRunRejectsEmptySimulation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.h5")
	err := Run(particlelife.Empty(0, 100, 100), &Config{Output: path, Steps: 1})
	assert.Error(t, err)
}

func TestNewLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.h5"))
	assert.Error(t, err)
}
