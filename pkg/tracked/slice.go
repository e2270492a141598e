package tracked

import "slices"

// Push appends value to the end of the slice held by u.
func Push[S ~[]E, E any](u Updater[S], value E) {
	u.Modify(func(v *S) {
		*v = append(*v, value)
	})
}

// Pop removes and returns the last element of the slice held by u.
//
// The outer Option is None if the signal was no longer valid and nothing
// happened. Otherwise the inner Option holds the removed element, or is None
// if the slice was empty; both cases count as a mutation.
func Pop[S ~[]E, E any](u Updater[S]) Option[Option[E]] {
	return TryUpdate(u, func(v *S) Option[E] {
		n := len(*v)
		if n == 0 {
			return None[E]()
		}
		last := (*v)[n-1]
		var zero E
		(*v)[n-1] = zero
		*v = (*v)[:n-1]
		return Some(last)
	})
}

// Append moves every element of other to the end of the slice held by u,
// leaving other empty.
func Append[S ~[]E, E any](u Updater[S], other *S) {
	u.Modify(func(v *S) {
		*v = append(*v, *other...)
		clear(*other)
		*other = (*other)[:0]
	})
}

// Clear removes every element of the slice held by u. Its capacity is kept.
func Clear[S ~[]E, E any](u Updater[S]) {
	u.Modify(func(v *S) {
		clear(*v)
		*v = (*v)[:0]
	})
}

// Insert inserts element at index, shifting later elements up. It panics if
// index is outside [0, len].
func Insert[S ~[]E, E any](u Updater[S], index int, element E) {
	u.Modify(func(v *S) {
		*v = slices.Insert(*v, index, element)
	})
}

// Remove removes and returns the element at index, shifting later elements
// down. It returns None if the signal was no longer valid. On a valid signal
// it panics if index is outside [0, len).
func Remove[S ~[]E, E any](u Updater[S], index int) Option[E] {
	return TryUpdate(u, func(v *S) E {
		removed := (*v)[index]
		*v = slices.Delete(*v, index, index+1)
		return removed
	})
}
