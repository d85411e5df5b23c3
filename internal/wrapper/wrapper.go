// Package wrapper defines the contract between the optimization engine
// and the external electronic-structure program that evaluates properties.
// The engine only ever runs a calculation, reads back the last value, and
// queries the capability table; how a backend computes anything is its own
// business.
package wrapper

import (
	"log/slog"
	"sort"
)

// Run result codes, mirrored by every backend.
const (
	RunSuccess           = 0
	RunMethodUnavailable = -1
	RunFailed            = -2
)

// CapabilityTable maps a method name to the evaluation types it supports.
// It is fixed when a backend is constructed and queried before use; there
// is no runtime discovery.
type CapabilityTable map[string][]string

// Supports reports whether the table lists evaluate under method.
func (t CapabilityTable) Supports(method, evaluate string) bool {
	for _, e := range t[method] {
		if e == evaluate {
			return true
		}
	}
	return false
}

// EvalTypes returns the union of evaluation types across all methods,
// sorted for stable output.
func (t CapabilityTable) EvalTypes() []string {
	seen := map[string]bool{}
	for _, evals := range t {
		for _, e := range evals {
			seen[e] = true
		}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Wrapper is the backend contract. Run stores its result internally;
// GetValue reads the most recent value for an evaluation type.
type Wrapper interface {
	Name() string

	// Run evaluates the named property for the target and returns one of
	// the Run* codes. The computed value is retained for GetValue.
	Run(evaluate string, target *Structure, params map[string]float64) int

	// GetValue returns the last value computed for an evaluation type, or
	// nil if none exists. Values are vectors; scalars have length one.
	GetValue(evaluate string) []float64

	// IsAvailable reports whether evaluate can be computed with method.
	IsAvailable(method, evaluate string) bool

	// AllAvailable lists every evaluation type some method supports.
	AllAvailable() []string

	// AvailableProperties lists the evaluation types for one method.
	AvailableProperties(method string) []string
}

// BatchWrapper is optionally implemented by backends that can evaluate
// many independent structures at once. Results are keyed by structure
// name; order is irrelevant to the caller.
type BatchWrapper interface {
	Wrapper
	RunAll(evaluate string, targets []*Structure, params map[string]float64) (map[string][]float64, error)
}

var current Wrapper = NewDummy()

// SetBackend installs the global backend used by strategies and
// optimizers.
func SetBackend(w Wrapper) {
	if current != nil && current.Name() != "Dummy" {
		slog.Warn("Overwriting previous backend", "old", current.Name(), "new", w.Name())
	}
	current = w
	slog.Info("Backend set", "name", w.Name())
}

// GetBackend returns the currently installed backend.
func GetBackend() Wrapper {
	return current
}

// PropertyNotAvailableError reports a requested evaluation type that no
// method of the current backend can compute. It is raised at strategy
// construction, never at first use.
type PropertyNotAvailableError struct {
	Property string
	Backend  string
}

func (e *PropertyNotAvailableError) Error() string {
	return "property " + e.Property + " not available with backend " + e.Backend
}

func (e *PropertyNotAvailableError) Is(target error) bool {
	_, ok := target.(*PropertyNotAvailableError)
	return ok
}
