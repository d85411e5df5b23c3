package wrapper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStateValid(t *testing.T) {
	s := NewStructure("o", "linear")
	// Neutral oxygen atom, triplet ground state.
	require.NoError(t, s.SetState(0, 3, 8))
	assert.Equal(t, 0, s.Charge())
	assert.Equal(t, 3, s.Multiplicity())

	// Cation doublet.
	require.NoError(t, s.SetState(1, 2, 8))
	assert.Equal(t, 1, s.Charge())
	assert.Equal(t, 2, s.Multiplicity())
}

func TestSetStateRejectsInvalid(t *testing.T) {
	s := NewStructure("o", "linear")

	err := s.SetState(0, 0, 8)
	assert.ErrorIs(t, err, &InvalidStateError{})

	// Even electron count cannot be a doublet.
	err = s.SetState(0, 2, 8)
	assert.ErrorIs(t, err, &InvalidStateError{})

	err = s.SetState(9, 1, 8)
	assert.ErrorIs(t, err, &InvalidStateError{})

	// Rejected states leave the structure unchanged.
	assert.Equal(t, 0, s.Charge())
	assert.Equal(t, 1, s.Multiplicity())
}

func TestResultsAndReferences(t *testing.T) {
	s := NewStructure("h2o", "linear")
	src := []float64{1.0, 2.0}
	s.AddResult("dipole", src)
	src[0] = 99.0 // stored value must be a copy

	got, ok := s.GetResult("dipole")
	require.True(t, ok)
	assert.Equal(t, []float64{1.0, 2.0}, got)

	_, ok = s.GetResult("energy")
	assert.False(t, ok)
}

func TestGetDelta(t *testing.T) {
	s := NewStructure("h2o", "linear")
	s.AddResult("energy", []float64{-76.0})
	s.SetReference("energy", []float64{-76.4})

	d, err := s.GetDelta("energy")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, d[0], 1e-12)

	// Missing reference counts as zero.
	s.AddResult("dipole", []float64{1.5, 0.5})
	d, err = s.GetDelta("dipole")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0.5}, d)

	_, err = s.GetDelta("quadrupole")
	assert.Error(t, err)
}

func TestErrorTypes(t *testing.T) {
	err := &PropertyNotAvailableError{Property: "energy", Backend: "Dummy"}
	assert.True(t, errors.Is(err, &PropertyNotAvailableError{}))
	assert.Contains(t, err.Error(), "energy")
	assert.Contains(t, err.Error(), "Dummy")
}
