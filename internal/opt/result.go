package opt

// OptResult is an append-only log of minimizer results, one entry per
// step the strategy allowed, in the order they happened.
type OptResult struct {
	Labels []string           `json:"labels"`
	Steps  map[string]*Result `json:"steps"`
}

// NewOptResult creates an empty log.
func NewOptResult() *OptResult {
	return &OptResult{Steps: map[string]*Result{}}
}

// Add appends a step result under a label.
func (r *OptResult) Add(label string, res *Result) {
	if _, exists := r.Steps[label]; !exists {
		r.Labels = append(r.Labels, label)
	}
	r.Steps[label] = res
}

// Get returns the result recorded under a label.
func (r *OptResult) Get(label string) (*Result, bool) {
	res, ok := r.Steps[label]
	return res, ok
}

// Len returns the number of recorded steps.
func (r *OptResult) Len() int { return len(r.Labels) }

// Final returns the last recorded result, or nil if the log is empty.
func (r *OptResult) Final() *Result {
	if len(r.Labels) == 0 {
		return nil
	}
	return r.Steps[r.Labels[len(r.Labels)-1]]
}

// OptCollection maps a per-atom-pass label to that atom's step log. It is
// produced only by collective optimization.
type OptCollection map[string]*OptResult
