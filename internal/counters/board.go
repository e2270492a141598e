package counters

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/vango-dev/tracked/internal/errors"
	"github.com/vango-dev/tracked/pkg/reactive"
)

// Counter is one entry of the board.
type Counter struct {
	ID    int
	Value reactive.ReadSignal[int]
	Set   reactive.WriteSignal[int]

	// scope owns the value signal; disposing it removes the counter from
	// its board's owner tree.
	scope *reactive.Owner
}

// CounterView is a point-in-time copy of a counter.
type CounterView struct {
	ID    int `json:"id"`
	Value int `json:"value"`
}

// Snapshot is a point-in-time copy of a board.
type Snapshot struct {
	NextID   int           `json:"nextId"`
	Total    int           `json:"total"`
	Counters []CounterView `json:"counters"`
}

// Updater is provided as context under the board's owner so code running in
// the board's scope can reach the list signal.
type Updater struct {
	SetCounters reactive.WriteSignal[[]Counter]
}

// Board is a reactive list of counters.
//
// A Board is not safe for concurrent use. Callers serialize access, as the
// server does with its dispatch loop.
type Board struct {
	owner  *reactive.Owner
	writes writer
	logger *slog.Logger

	nextID    reactive.ReadSignal[int]
	setNextID reactive.WriteSignal[int]

	counters    reactive.ReadSignal[[]Counter]
	setCounters reactive.WriteSignal[[]Counter]
}

// Option configures a Board.
type Option func(*Board)

// WithStrategy selects how the board writes its signals.
func WithStrategy(s Strategy) Option {
	return func(b *Board) {
		b.writes = s.writer()
	}
}

// WithLogger sets the logger for board activity.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		b.logger = l
	}
}

// NewBoard creates an empty board with its own root owner.
func NewBoard(opts ...Option) *Board {
	b := &Board{
		owner:  reactive.NewOwner(nil),
		writes: StrategyHelpers.writer(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	reactive.WithOwner(b.owner, func() {
		b.nextID, b.setNextID = reactive.CreateSignal(0)
		b.counters, b.setCounters = reactive.CreateSignal([]Counter{})
		reactive.ProvideContext(Updater{SetCounters: b.setCounters})
	})
	return b
}

// NextID returns the signal holding the id the next counter will get.
func (b *Board) NextID() reactive.ReadSignal[int] {
	return b.nextID
}

// Counters returns the signal holding the counter list.
func (b *Board) Counters() reactive.ReadSignal[[]Counter] {
	return b.counters
}

// Scope runs fn with the board's owner current, so fn can create signals
// that live as long as the board and read the Updater context.
func (b *Board) Scope(fn func()) {
	reactive.WithOwner(b.owner, fn)
}

func (b *Board) checkOpen() error {
	if b.owner.IsDisposed() {
		return errors.New("T012")
	}
	return nil
}

func (b *Board) newCounter(id int) Counter {
	scope := reactive.NewOwner(b.owner)
	c := Counter{ID: id, scope: scope}
	reactive.WithOwner(scope, func() {
		c.Value, c.Set = reactive.CreateSignal(0)
	})
	return c
}

// AddCounter appends one counter and advances the next id.
func (b *Board) AddCounter() (Counter, error) {
	if err := b.checkOpen(); err != nil {
		return Counter{}, err
	}

	c := b.newCounter(b.nextID.Peek())
	b.writes.push(b.setCounters, c)
	b.writes.add(b.setNextID, 1)
	return c, nil
}

// AddMany appends n counters with a single list write and advances the next
// id by n.
func (b *Board) AddMany(n int) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if n < 0 {
		return errors.New("T010").WithDetailf("cannot add %d counters", n)
	}

	first := b.nextID.Peek()
	b.writes.extend(b.setCounters, b.sequence(first, n))
	b.writes.add(b.setNextID, n)

	b.logger.Debug("counters added", "first", first, "count", n)
	return nil
}

// sequence yields n fresh counters starting at id first. Counters are
// created as the sequence is consumed.
func (b *Board) sequence(first, n int) iter.Seq[Counter] {
	return func(yield func(Counter) bool) {
		for id := first; id < first+n; id++ {
			if !yield(b.newCounter(id)) {
				return
			}
		}
	}
}

// Clear removes every counter. The next id is not reset.
func (b *Board) Clear() error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	removed := slices.Clone(b.counters.Peek())
	b.writes.clear(b.setCounters)
	for _, c := range removed {
		c.scope.Dispose()
	}

	b.logger.Debug("counters cleared", "count", len(removed))
	return nil
}

// Increment adds delta to one counter and returns its new value. Only that
// counter's signal is written.
func (b *Board) Increment(id, delta int) (int, error) {
	if err := b.checkOpen(); err != nil {
		return 0, err
	}

	c, _, ok := b.find(id)
	if !ok {
		return 0, errors.New("T011").WithDetailf("no counter with id %d", id)
	}
	b.writes.add(c.Set, delta)
	return c.Value.Peek(), nil
}

// RemoveCounter removes the counter with the given id.
func (b *Board) RemoveCounter(id int) (Counter, error) {
	if err := b.checkOpen(); err != nil {
		return Counter{}, err
	}

	_, index, ok := b.find(id)
	if !ok {
		return Counter{}, errors.New("T011").WithDetailf("no counter with id %d", id)
	}

	removed, ok := b.writes.remove(b.setCounters, index).Get()
	if !ok {
		return Counter{}, errors.New("T012")
	}
	removed.scope.Dispose()
	return removed, nil
}

// RemoveLast removes the most recently added counter.
func (b *Board) RemoveLast() (Counter, error) {
	popped, ok := b.writes.pop(b.setCounters).Get()
	if !ok {
		return Counter{}, errors.New("T012")
	}
	last, ok := popped.Get()
	if !ok {
		return Counter{}, errors.New("T011").WithDetail("the board is empty")
	}
	last.scope.Dispose()
	return last, nil
}

func (b *Board) find(id int) (Counter, int, bool) {
	list := b.counters.Peek()
	i := slices.IndexFunc(list, func(c Counter) bool { return c.ID == id })
	if i < 0 {
		return Counter{}, -1, false
	}
	return list[i], i, true
}

// Len returns the number of counters.
func (b *Board) Len() int {
	return len(b.counters.Peek())
}

// Total returns the sum of every counter value.
func (b *Board) Total() int {
	total := 0
	for _, c := range b.counters.Peek() {
		total += c.Value.Peek()
	}
	return total
}

// Snapshot copies the board without tracking.
func (b *Board) Snapshot() Snapshot {
	var s Snapshot
	reactive.Untracked(func() {
		s = b.snapshot()
	})
	return s
}

// snapshot reads every signal with Get, so a running effect depends on the
// list, the next id and each counter value.
func (b *Board) snapshot() Snapshot {
	list := b.counters.Get()
	s := Snapshot{
		NextID:   b.nextID.Get(),
		Counters: make([]CounterView, 0, len(list)),
	}
	for _, c := range list {
		v := c.Value.Get()
		s.Total += v
		s.Counters = append(s.Counters, CounterView{ID: c.ID, Value: v})
	}
	return s
}

// Watch calls fn with a snapshot now and again after every change, once per
// Flush. The returned function stops watching.
func (b *Board) Watch(fn func(Snapshot)) (stop func()) {
	var effect *reactive.Effect
	reactive.WithOwner(b.owner, func() {
		effect = reactive.CreateEffect(func() reactive.Cleanup {
			fn(b.snapshot())
			return nil
		})
	})
	return effect.Dispose
}

// Flush runs pending watchers and returns how many ran.
func (b *Board) Flush() int {
	return b.owner.RunPendingEffects()
}

// Close disposes every signal of the board. Later mutations fail with T012.
func (b *Board) Close() {
	b.owner.Dispose()
}

// Closed reports whether Close has been called.
func (b *Board) Closed() bool {
	return b.owner.IsDisposed()
}
