package util

type Equaler interface {
	Equal(Equaler) bool
}

// UnknownTaskError is returned by the factories when a converter, head finder
// or input format identifier is not known.
type UnknownTaskError struct {
	Kind string
	Task string
}

func (e *UnknownTaskError) Error() string {
	return "unknown " + e.Kind + ": " + e.Task
}
