package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/viewbridge/pkg/animation"
)

func TestFakeCore_LedgerFlagsLeaksAndDoubleReleases(t *testing.T) {
	core := NewFakeCore()
	leaked := core.MintCell(0, true)
	doubled := core.MintEnv()

	core.ReleaseEnv(doubled)
	core.ReleaseEnv(doubled)

	leaks := core.Leaks()
	require.Len(t, leaks, 2)
	assert.Contains(t, leaks[0], "cell")
	assert.Contains(t, leaks[1], "env")

	core.ReleaseCell(leaked)
	assert.Equal(t, 1, core.Retirements(uint64(leaked)))
}

func TestFakeCore_AsyncDeliveryPreservesPerCellOrder(t *testing.T) {
	core := NewFakeCore()
	core.SetAsync(true)
	cell := core.MintCell(0, true)

	var mu sync.Mutex
	var got []int
	_, err := core.Watch(cell, func(value any, _ animation.Metadata) {
		mu.Lock()
		got = append(got, value.(int))
		mu.Unlock()
	})
	require.NoError(t, err)

	for i := 1; i <= 100; i++ {
		core.Push(cell, i, animation.Immediate())
	}
	core.Drain()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i+1, v)
	}
}

func TestFakeCore_WriteCellRespectsWritability(t *testing.T) {
	core := NewFakeCore()
	writable := core.MintCell("a", true)
	derived := core.MintCell("b", false)

	require.NoError(t, core.WriteCell(writable, "c"))
	assert.Equal(t, "c", core.CellValue(writable))

	require.Error(t, core.WriteCell(derived, "d"))
	assert.Equal(t, "b", core.CellValue(derived))
}

func TestFakeClock_AdvanceIsCumulative(t *testing.T) {
	clock := NewFakeClock()
	start := clock.Now()

	clock.Advance(250 * time.Millisecond)
	clock.Advance(750 * time.Millisecond)

	assert.Equal(t, time.Second, clock.Elapsed())
	assert.Equal(t, start.Add(time.Second), clock.Now())
}

func TestFakeWidget_Depth(t *testing.T) {
	root := NewFakeWidget("root")
	mid := NewFakeWidget("mid")
	leaf := NewFakeWidget("leaf")
	mid.AddChild(leaf)
	root.AddChild(mid)

	assert.Equal(t, 3, root.Depth())
	assert.Equal(t, 1, leaf.Depth())
}

func TestView_WatchUnwatchStopsDelivery(t *testing.T) {
	core := NewFakeCore()
	cell := core.MintCell(0, true)

	var got []any
	id, err := core.Watch(cell, func(value any, _ animation.Metadata) {
		got = append(got, value)
	})
	require.NoError(t, err)

	core.Push(cell, 1, animation.Immediate())
	core.Unwatch(id)
	core.Push(cell, 2, animation.Immediate())

	assert.Equal(t, []any{1}, got)
}
