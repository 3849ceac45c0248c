package backend

// Outcome is the result of exactly one call: either Value or Err, never both.
type Outcome[T any] struct {
	Value T
	Err   *Error
}

// Success wraps a decoded value.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failure wraps a classified error.
func Failure[T any](err *Error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// OK reports whether the outcome holds a value.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Get returns the value, or the zero value and the error.
func (o Outcome[T]) Get() (T, error) {
	if o.Err != nil {
		var zero T
		return zero, o.Err
	}
	return o.Value, nil
}
