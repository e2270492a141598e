// Package counters is a list of independently updatable counters kept in
// reactive signals.
//
// The board holds two signals: the next counter id and the counter list.
// Each counter carries its own value signal, so incrementing one counter
// never notifies observers of the list. Adding a thousand counters at once
// extends the list in a single write.
//
// A board writes its signals through one of two strategies. StrategyHelpers
// uses the tracked shorthands; StrategyPlain writes the same mutations as
// explicit Modify closures. Both produce identical values and identical
// notification counts.
package counters
