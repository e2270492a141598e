package counters

import (
	"fmt"
	"iter"
	"slices"

	"github.com/vango-dev/tracked/pkg/reactive"
	"github.com/vango-dev/tracked/pkg/tracked"
)

// Strategy selects how a board writes its signals.
type Strategy int

const (
	// StrategyHelpers writes through the tracked shorthands.
	StrategyHelpers Strategy = iota

	// StrategyPlain writes through explicit Modify closures.
	StrategyPlain
)

// ParseStrategy maps "helpers" or "plain" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "helpers", "":
		return StrategyHelpers, nil
	case "plain":
		return StrategyPlain, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyHelpers:
		return "helpers"
	case StrategyPlain:
		return "plain"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// writer performs every mutation a board makes. Each method is exactly one
// write to the signal it is given.
type writer interface {
	push(list reactive.WriteSignal[[]Counter], c Counter)
	extend(list reactive.WriteSignal[[]Counter], items iter.Seq[Counter])
	clear(list reactive.WriteSignal[[]Counter])
	remove(list reactive.WriteSignal[[]Counter], index int) tracked.Option[Counter]
	pop(list reactive.WriteSignal[[]Counter]) tracked.Option[tracked.Option[Counter]]
	add(n reactive.WriteSignal[int], delta int)
}

func (s Strategy) writer() writer {
	if s == StrategyPlain {
		return plainWriter{}
	}
	return helperWriter{}
}

type helperWriter struct{}

func (helperWriter) push(list reactive.WriteSignal[[]Counter], c Counter) {
	tracked.Push(list, c)
}

func (helperWriter) extend(list reactive.WriteSignal[[]Counter], items iter.Seq[Counter]) {
	tracked.Extend(list, items)
}

func (helperWriter) clear(list reactive.WriteSignal[[]Counter]) {
	tracked.Clear(list)
}

func (helperWriter) remove(list reactive.WriteSignal[[]Counter], index int) tracked.Option[Counter] {
	return tracked.Remove(list, index)
}

func (helperWriter) pop(list reactive.WriteSignal[[]Counter]) tracked.Option[tracked.Option[Counter]] {
	return tracked.Pop(list)
}

func (helperWriter) add(n reactive.WriteSignal[int], delta int) {
	tracked.Add(n, delta)
}

type plainWriter struct{}

func (plainWriter) push(list reactive.WriteSignal[[]Counter], c Counter) {
	list.Modify(func(v *[]Counter) { *v = append(*v, c) })
}

func (plainWriter) extend(list reactive.WriteSignal[[]Counter], items iter.Seq[Counter]) {
	list.Modify(func(v *[]Counter) { *v = slices.AppendSeq(*v, items) })
}

func (plainWriter) clear(list reactive.WriteSignal[[]Counter]) {
	list.Modify(func(v *[]Counter) {
		clear(*v)
		*v = (*v)[:0]
	})
}

func (plainWriter) remove(list reactive.WriteSignal[[]Counter], index int) tracked.Option[Counter] {
	var removed Counter
	ok := list.TryModify(func(v *[]Counter) {
		removed = (*v)[index]
		*v = slices.Delete(*v, index, index+1)
	})
	if !ok {
		return tracked.None[Counter]()
	}
	return tracked.Some(removed)
}

func (plainWriter) pop(list reactive.WriteSignal[[]Counter]) tracked.Option[tracked.Option[Counter]] {
	var popped tracked.Option[Counter]
	ok := list.TryModify(func(v *[]Counter) {
		n := len(*v)
		if n == 0 {
			return
		}
		popped = tracked.Some((*v)[n-1])
		(*v)[n-1] = Counter{}
		*v = (*v)[:n-1]
	})
	if !ok {
		return tracked.None[tracked.Option[Counter]]()
	}
	return tracked.Some(popped)
}

func (plainWriter) add(n reactive.WriteSignal[int], delta int) {
	n.Modify(func(v *int) { *v += delta })
}
