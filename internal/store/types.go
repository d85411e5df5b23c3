package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/opt"
	"github.com/robashaw/basisopt/internal/strategy"
)

// SchemaVersion tags the session document format. Bump on incompatible
// changes.
const SchemaVersion = 1

// Session is a persisted optimization state: the strategy's serialized
// state machine plus a snapshot of the basis it was driving, sufficient
// to reconstruct and resume or inspect the run later.
//
// The strategy dict carries step index, convergence flags and (for
// Reduce) the full-basis snapshot. Preconditioner and guess functions are
// not serializable; restoring a session reinstalls policy defaults and
// warns about it, rather than silently substituting them.
type Session struct {
	// Version is the schema version this document was written with.
	Version int `json:"version"`

	// ID uniquely identifies the session.
	ID string `json:"id"`

	// Element is the atom whose basis was being optimized.
	Element string `json:"element"`

	// Created records when the session was first saved.
	Created time.Time `json:"created"`

	// Strategy is the serialized state machine.
	Strategy strategy.Dict `json:"strategy"`

	// Basis is a snapshot of the basis at save time.
	Basis basis.InternalBasis `json:"basis"`

	// Results optionally archives the step log of the run so far.
	Results *opt.OptResult `json:"results,omitempty"`
}

// NewSession snapshots a strategy and basis into a fresh session with a
// generated ID.
func NewSession(element string, strat strategy.Strategy, b basis.InternalBasis) *Session {
	return &Session{
		Version:  SchemaVersion,
		ID:       uuid.NewString(),
		Element:  element,
		Created:  time.Now(),
		Strategy: strat.ToDict(),
		Basis:    b.Copy(),
	}
}

// RestoreStrategy rebuilds the strategy from the session document.
func (s *Session) RestoreStrategy() (strategy.Strategy, error) {
	return strategy.FromDict(s.Strategy)
}

// Validate checks that the session document is complete enough to
// restore. Returns a ValidationError naming the first bad field.
func (s *Session) Validate() error {
	if s.Version <= 0 || s.Version > SchemaVersion {
		return &ValidationError{Field: "Version", Reason: fmt.Sprintf("unsupported version %d", s.Version)}
	}
	if s.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if s.Element == "" {
		return &ValidationError{Field: "Element", Reason: "cannot be empty"}
	}
	if s.Created.IsZero() {
		return &ValidationError{Field: "Created", Reason: "cannot be zero"}
	}
	if s.Strategy.Type == "" {
		return &ValidationError{Field: "Strategy.Type", Reason: "cannot be empty"}
	}
	if s.Basis == nil {
		return &ValidationError{Field: "Basis", Reason: "cannot be nil"}
	}
	for el, shells := range s.Basis {
		for i, shell := range shells {
			for _, c := range shell.Coefs {
				if len(c) != len(shell.Exps) {
					return &ValidationError{
						Field:  "Basis",
						Reason: fmt.Sprintf("shell %d of %s has coefficient length %d for %d exponents", i, el, len(c), len(shell.Exps)),
					}
				}
			}
		}
	}
	return nil
}

// ToInfo converts a session to its metadata-only form.
func (s *Session) ToInfo() SessionInfo {
	return SessionInfo{
		ID:       s.ID,
		Element:  s.Element,
		Strategy: s.Strategy.Type,
		Created:  s.Created,
	}
}

// SessionInfo is session metadata without the basis or step log, for
// listing sessions cheaply.
type SessionInfo struct {
	ID       string    `json:"id"`
	Element  string    `json:"element"`
	Strategy string    `json:"strategy"`
	Created  time.Time `json:"created"`
}

// ValidationError reports an invalid session field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}
