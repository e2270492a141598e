package tracked

import "fmt"

// Option is a value that may be absent. Pop nests two of them to keep
// "signal invalid" apart from "collection empty".
type Option[V any] struct {
	value V
	ok    bool
}

// Some returns an Option holding v.
func Some[V any](v V) Option[V] {
	return Option[V]{value: v, ok: true}
}

// None returns an empty Option.
func None[V any]() Option[V] {
	return Option[V]{}
}

// Get returns the held value and whether there is one.
func (o Option[V]) Get() (V, bool) {
	return o.value, o.ok
}

// IsSome reports whether o holds a value.
func (o Option[V]) IsSome() bool {
	return o.ok
}

// IsNone reports whether o is empty.
func (o Option[V]) IsNone() bool {
	return !o.ok
}

// MustGet returns the held value and panics if o is empty.
func (o Option[V]) MustGet() V {
	if !o.ok {
		panic("tracked: MustGet on empty Option")
	}
	return o.value
}

// OrElse returns the held value, or fallback if o is empty.
func (o Option[V]) OrElse(fallback V) V {
	if !o.ok {
		return fallback
	}
	return o.value
}

func (o Option[V]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}
