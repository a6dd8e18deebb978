// internal/page/optional.go
package page

import "fmt"

// Optional holds a value that a page lookup may not have produced.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None is the empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// OK reports whether a value is present.
func (o Optional[T]) OK() bool {
	return o.ok
}

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// Map applies fn to a present value.
func Map[T, U any](o Optional[T], fn func(T) U) Optional[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(fn(o.value))
}
