package strategy

import (
	"fmt"
	"log/slog"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/precond"
)

const dictVersion = 1

// Dict is the serialized form of a strategy: a type tag plus every field
// needed to reconstruct its state. Policy-specific fields are omitted
// when empty.
type Dict struct {
	Type           string             `json:"type"`
	Version        int                `json:"version"`
	EvalType       string             `json:"evalType"`
	Params         map[string]float64 `json:"params,omitempty"`
	Preconditioner string             `json:"preconditioner,omitempty"`
	Step           int                `json:"step"`
	LastObjective  float64            `json:"lastObjective"`
	DeltaObjective float64            `json:"deltaObjective"`
	FirstRun       bool               `json:"firstRun"`

	// EvenTemper
	Target    float64          `json:"target,omitempty"`
	MaxN      int              `json:"maxN,omitempty"`
	MaxL      int              `json:"maxL,omitempty"`
	Shells    []basis.ETParams `json:"shells,omitempty"`
	ShellDone []int            `json:"shellDone,omitempty"`

	// Reduce
	Method        string              `json:"method,omitempty"`
	ShellMins     []int               `json:"shellMins,omitempty"`
	ReoptAll      bool                `json:"reoptAll,omitempty"`
	NExps         []int               `json:"nexps,omitempty"`
	ReductionStep bool                `json:"reductionStep,omitempty"`
	FullBasis     basis.InternalBasis `json:"fullBasis,omitempty"`
	SavedBasis    basis.InternalBasis `json:"savedBasis,omitempty"`
}

// FromDict reconstructs a strategy from its serialized form, dispatching
// on the type tag. The preconditioner is restored by name; guess
// functions are not serializable, so reconstruction always installs the
// policy defaults and warns about it.
func FromDict(d Dict) (Strategy, error) {
	if d.Version > dictVersion {
		return nil, fmt.Errorf("strategy dict version %d is newer than supported version %d", d.Version, dictVersion)
	}
	slog.Warn("Restoring a strategy installs default preconditioner and guess functions",
		"type", d.Type)

	switch d.Type {
	case "Default":
		s, err := NewDefault(d.EvalType)
		if err != nil {
			return nil, err
		}
		s.restoreState(d)
		return s, nil
	case "EvenTemper":
		s, err := NewEvenTempered(d.EvalType, d.Target, d.MaxN, d.MaxL)
		if err != nil {
			return nil, err
		}
		s.restoreState(d)
		s.shells = append([]basis.ETParams{}, d.Shells...)
		s.shellDone = append([]int{}, d.ShellDone...)
		return s, nil
	case "Reduce":
		s, err := NewReduce(d.FullBasis, d.EvalType, d.Method, d.Target, d.ShellMins, d.MaxL, d.ReoptAll)
		if err != nil {
			return nil, err
		}
		s.restoreState(d)
		s.savedBasis = d.SavedBasis
		s.nexps = append([]int{}, d.NExps...)
		s.reduction = d.ReductionStep
		return s, nil
	}
	return nil, fmt.Errorf("unknown strategy type %q", d.Type)
}

// restoreState reinstates the shared bookkeeping from a dict.
func (s *state) restoreState(d Dict) {
	if d.Params != nil {
		s.params = d.Params
	}
	if pre, err := precond.ByName(d.Preconditioner); err == nil {
		s.pre = pre
	}
	s.step = d.Step
	s.lastObjective = d.LastObjective
	s.deltaObjective = d.DeltaObjective
	s.firstRun = d.FirstRun
}
