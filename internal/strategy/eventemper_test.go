package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robashaw/basisopt/internal/basis"
)

func TestEvenTemperedInitialise(t *testing.T) {
	b := basis.InternalBasis{}
	e, err := NewEvenTempered("energy", 1e-4, 9, -1)
	require.NoError(t, err)
	require.NoError(t, e.Initialise(b, "c"))

	// Carbon occupies s and p.
	require.Len(t, b["c"], 2)
	assert.Equal(t, "s", b["c"][0].L)
	assert.Equal(t, "p", b["c"][1].L)
	require.Len(t, b["c"][0].Exps, etInitialGuess.N)
	assert.Equal(t, etInitialGuess.Start, b["c"][0].Exps[0])

	assert.Equal(t, []float64{etInitialGuess.Start, etInitialGuess.Ratio}, e.GetActive(b, "c"))
}

func TestEvenTemperedRespectsRequestedShellCount(t *testing.T) {
	b := basis.InternalBasis{}
	e, err := NewEvenTempered("energy", 1e-4, 9, 3)
	require.NoError(t, err)
	require.NoError(t, e.Initialise(b, "h"))
	// Requested count above the minimal configuration wins.
	require.Len(t, b["h"], 3)
}

func TestEvenTemperedSetActiveClamps(t *testing.T) {
	b := basis.InternalBasis{}
	e, err := NewEvenTempered("energy", 1e-4, 9, -1)
	require.NoError(t, err)
	require.NoError(t, e.Initialise(b, "h"))

	e.SetActive([]float64{-3.0, 0.5}, b, "h")
	got := e.GetActive(b, "h")
	assert.Equal(t, etMinStart, got[0])
	assert.Equal(t, etMinRatio, got[1])
	// Basis was re-expanded from the clamped parameters.
	assert.Equal(t, etMinStart, b["h"][0].Exps[0])
}

func TestEvenTemperedProgression(t *testing.T) {
	b := basis.InternalBasis{}
	e, err := NewEvenTempered("energy", 1e-4, 9, -1)
	require.NoError(t, err)
	require.NoError(t, e.Initialise(b, "c"))

	// First pass optimizes each shell's (start, ratio) once.
	carryOn, err := e.Next(b, "c", 1.0)
	require.NoError(t, err)
	assert.True(t, carryOn)
	assert.True(t, e.FirstRun())

	carryOn, err = e.Next(b, "c", 2.0)
	require.NoError(t, err)
	assert.True(t, carryOn)

	// Pass complete: refinement starts by growing the lowest shell.
	carryOn, err = e.Next(b, "c", 3.0)
	require.NoError(t, err)
	assert.True(t, carryOn)
	assert.False(t, e.FirstRun())
	assert.Equal(t, etInitialGuess.N+1, e.shells[0].N)
	assert.Equal(t, etInitialGuess.N, e.shells[1].N)

	// Still improving: the next shell grows too.
	carryOn, err = e.Next(b, "c", 4.0)
	require.NoError(t, err)
	assert.True(t, carryOn)
	assert.Equal(t, etInitialGuess.N+1, e.shells[1].N)

	// No further improvement and shell 0 is at the cap: both done.
	carryOn, err = e.Next(b, "c", 4.0)
	require.NoError(t, err)
	assert.False(t, carryOn)
	assert.Equal(t, []int{0, 0}, e.shellDone)
}

func TestEvenTemperedDictRoundTrip(t *testing.T) {
	b := basis.InternalBasis{}
	e, err := NewEvenTempered("energy", 1e-4, 12, -1)
	require.NoError(t, err)
	require.NoError(t, e.Initialise(b, "c"))
	_, err = e.Next(b, "c", 1.5)
	require.NoError(t, err)

	d := e.ToDict()
	assert.Equal(t, "EvenTemper", d.Type)

	restored, err := FromDict(d)
	require.NoError(t, err)
	et, ok := restored.(*EvenTempered)
	require.True(t, ok)
	assert.Equal(t, e.step, et.step)
	assert.Equal(t, e.shells, et.shells)
	assert.Equal(t, e.shellDone, et.shellDone)
	assert.Equal(t, e.LastObjective(), et.LastObjective())
}
