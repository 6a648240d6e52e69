package validate

// Result is the outcome of validating one raw input.
type Result struct {
	// Value is the normalized value, meaningful only when the input was accepted.
	Value string
	// Reason explains a rejection.
	Reason string

	ok bool
}

// Accepted builds a successful result.
func Accepted(value string) Result {
	return Result{Value: value, ok: true}
}

// Rejected builds a failed result.
func Rejected(reason string) Result {
	return Result{Reason: reason}
}

// OK reports whether the input was accepted.
func (r Result) OK() bool { return r.ok }
