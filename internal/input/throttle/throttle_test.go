package throttle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCoalescesWithinWindow(t *testing.T) {
	g := NewGate(20 * time.Millisecond)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, g.Allow(base))
	assert.False(t, g.Allow(base.Add(5*time.Millisecond)))
	assert.False(t, g.Allow(base.Add(19*time.Millisecond)))
	assert.True(t, g.Allow(base.Add(20*time.Millisecond)))
	assert.False(t, g.Allow(base.Add(30*time.Millisecond)))
}

func TestGateZeroWindowAcceptsAll(t *testing.T) {
	g := NewGate(0)
	ts := time.Now()
	for i := 0; i < 5; i++ {
		assert.True(t, g.Allow(ts))
	}
}

func TestGateClockSkewDoesNotBlock(t *testing.T) {
	g := NewGate(time.Second)
	base := time.Now()
	require.True(t, g.Allow(base))
	assert.True(t, g.Allow(base.Add(-time.Minute)))
}

func TestGateUsesClockForZeroTimestamp(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGate(10*time.Millisecond, WithClock(func() time.Time { return now }))

	assert.True(t, g.Allow(time.Time{}))
	assert.False(t, g.Allow(time.Time{}))
	now = now.Add(10 * time.Millisecond)
	assert.True(t, g.Allow(time.Time{}))
}

func TestGateReset(t *testing.T) {
	g := NewGate(time.Hour)
	ts := time.Now()
	require.True(t, g.Allow(ts))
	require.False(t, g.Allow(ts))
	g.Reset()
	assert.True(t, g.Allow(ts))
}

type recorder struct {
	mu     sync.Mutex
	values []int
}

func (r *recorder) add(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) get() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

func TestDebouncerDeliversLatest(t *testing.T) {
	var rec recorder
	d := NewDebouncer(30*time.Millisecond, rec.add)

	for i := 1; i <= 5; i++ {
		d.Call(i)
	}
	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []int{5}, rec.get())
	assert.False(t, d.IsPending())
}

func TestDebouncerFlush(t *testing.T) {
	var rec recorder
	d := NewDebouncer(time.Hour, rec.add)

	d.Call(7)
	require.True(t, d.IsPending())
	d.Flush()
	assert.Equal(t, []int{7}, rec.get())

	d.Flush()
	assert.Equal(t, []int{7}, rec.get(), "nothing pending, nothing delivered")
}

func TestDebouncerCancel(t *testing.T) {
	var rec recorder
	d := NewDebouncer(20*time.Millisecond, rec.add)

	d.Call(1)
	d.Cancel()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.get())
}
