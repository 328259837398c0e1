// Package result carries the success-or-error union used as the return
// contract for service operations that can fail in an expected way.
// Infrastructure faults still travel as plain errors; a Result is for
// outcomes the caller is meant to branch on and show to a user.
package result

// Result holds either a value or a human-readable error message, never both.
type Result[T any] struct {
	value  T
	errMsg string
	ok     bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Err wraps a failure message.
func Err[T any](msg string) Result[T] {
	return Result[T]{errMsg: msg}
}

// Success reports whether the result holds a value.
func (r Result[T]) Success() bool { return r.ok }

// Value returns the held value. Zero value on failure.
func (r Result[T]) Value() T { return r.value }

// ErrMsg returns the failure message, empty on success.
func (r Result[T]) ErrMsg() string { return r.errMsg }
