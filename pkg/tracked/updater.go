package tracked

// Updater is the write capability the shorthands operate on.
//
// reactive.WriteSignal and *reactive.Signal implement it.
type Updater[T any] interface {
	// Modify applies fn to the held value in place and notifies dependents,
	// even if fn made no change.
	Modify(fn func(*T))

	// TryModify is Modify for a handle that may no longer be valid. It
	// reports whether fn ran; when false, nothing was mutated or notified.
	TryModify(fn func(*T)) bool
}

// Update applies fn to the value held by u and returns fn's result.
func Update[T, R any](u Updater[T], fn func(*T) R) R {
	var result R
	u.Modify(func(v *T) {
		result = fn(v)
	})
	return result
}

// TryUpdate applies fn to the value held by u if u is still valid. The
// result is None when fn did not run.
func TryUpdate[T, R any](u Updater[T], fn func(*T) R) Option[R] {
	var result R
	if !u.TryModify(func(v *T) {
		result = fn(v)
	}) {
		return None[R]()
	}
	return Some(result)
}
