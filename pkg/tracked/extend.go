package tracked

import (
	"iter"
	"slices"
	"strings"
)

// Extend appends every element of items to the slice held by u in a single
// mutation. An empty sequence still notifies once.
func Extend[S ~[]E, E any](u Updater[S], items iter.Seq[E]) {
	u.Modify(func(v *S) {
		*v = slices.AppendSeq(*v, items)
	})
}

// ExtendFrom is Extend for an explicit list of elements.
func ExtendFrom[S ~[]E, E any](u Updater[S], items ...E) {
	Extend(u, slices.Values(items))
}

// ExtendString appends every fragment of parts to the string held by u in a
// single mutation.
func ExtendString[S ~string](u Updater[S], parts iter.Seq[S]) {
	u.Modify(func(v *S) {
		var b strings.Builder
		b.WriteString(string(*v))
		for part := range parts {
			b.WriteString(string(part))
		}
		*v = S(b.String())
	})
}
