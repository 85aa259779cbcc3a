// Package confirm models destructive operations as pending results that the caller
// resolves after asking the operator.
package confirm

// Pending is the outcome of a destructive operation that has not been confirmed yet.
// Current is the unchanged value; Resolve(true) produces the changed one.
type Pending[T any] struct {
	Prompt  string
	Current T
	apply   func() T
}

// New builds a Pending whose confirmation runs apply.
func New[T any](prompt string, current T, apply func() T) Pending[T] {
	return Pending[T]{Prompt: prompt, Current: current, apply: apply}
}

// Resolve returns the changed value when ok is true and the current value otherwise.
func (p Pending[T]) Resolve(ok bool) T {
	if !ok || p.apply == nil {
		return p.Current
	}
	return p.apply()
}

// Confirm is Resolve(true).
func (p Pending[T]) Confirm() T {
	return p.Resolve(true)
}

// Cancel is Resolve(false).
func (p Pending[T]) Cancel() T {
	return p.Resolve(false)
}

// Map transforms both outcomes of p with fn, keeping the prompt.
func Map[T, U any](p Pending[T], fn func(T) U) Pending[U] {
	return Pending[U]{
		Prompt:  p.Prompt,
		Current: fn(p.Current),
		apply: func() U {
			return fn(p.Resolve(true))
		},
	}
}
