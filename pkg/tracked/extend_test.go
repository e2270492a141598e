package tracked_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/tracked/pkg/tracked"
)

func TestExtendString(t *testing.T) {
	read, write, notifications := observed(t, "")

	tracked.ExtendString(write, slices.Values([]string{"Hello", " World!"}))

	assert.Equal(t, "Hello World!", read.Get())
	assert.Equal(t, 1, *notifications)
}

func TestExtendString_MatchesRepeatedAdd(t *testing.T) {
	fragments := []string{"a", "bc", "", "def"}

	viaAdd := &cell[string]{value: "s:"}
	for _, f := range fragments {
		tracked.Add(viaAdd, f)
	}

	viaExtend := &cell[string]{value: "s:"}
	tracked.ExtendString(viaExtend, slices.Values(fragments))

	assert.Equal(t, viaAdd.value, viaExtend.value)
	assert.Equal(t, len(fragments), viaAdd.modifies)
	assert.Equal(t, 1, viaExtend.modifies)
}

func TestExtend_OneNotificationForManyElements(t *testing.T) {
	read, write, notifications := observed(t, []int{1})

	tracked.Extend(write, slices.Values([]int{2, 3, 4, 5}))

	assert.Equal(t, []int{1, 2, 3, 4, 5}, read.Get())
	assert.Equal(t, 1, *notifications)
}

func TestExtend_EmptySequenceStillNotifies(t *testing.T) {
	read, write, notifications := observed(t, []string{"x"})

	tracked.Extend(write, slices.Values([]string(nil)))
	tracked.ExtendString(&cell[string]{}, slices.Values([]string{}))

	assert.Equal(t, []string{"x"}, read.Get())
	assert.Equal(t, 1, *notifications)
}

func TestExtend_FromIterator(t *testing.T) {
	c := &cell[[]string]{}
	m := map[string]int{"b": 2, "a": 1, "c": 3}

	tracked.Extend(c, maps.Keys(m))

	slices.Sort(c.value)
	assert.Equal(t, []string{"a", "b", "c"}, c.value)
	assert.Equal(t, 1, c.calls())
}

func TestExtendFrom(t *testing.T) {
	type label string
	c := &cell[[]label]{value: []label{"a"}}

	tracked.ExtendFrom(c, "b", "c")

	assert.Equal(t, []label{"a", "b", "c"}, c.value)
	assert.Equal(t, 1, c.modifies)
}
