package audio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Add(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func TestClockPlayerRequiresOpen(t *testing.T) {
	p := NewClockPlayer()
	assert.ErrorIs(t, p.Play(), ErrNotReady)
}

func TestClockPlayerPosition(t *testing.T) {
	mt := &manualTime{now: time.Unix(0, 0)}
	p := NewClockPlayer(WithTimeSource(mt.Now), WithRate(2), WithTick(time.Hour))
	require.NoError(t, p.Open(context.Background(), Asset{}))
	require.NoError(t, p.Seek(1))

	require.NoError(t, p.Play())
	mt.Add(500 * time.Millisecond)
	assert.InDelta(t, 2.0, p.Position(), 1e-9)

	p.Pause()
	mt.Add(time.Second)
	assert.InDelta(t, 2.0, p.Position(), 1e-9)
	assert.False(t, p.Playing())
}

func TestClockPlayerTicksAndStopsAtDuration(t *testing.T) {
	p := NewClockPlayer(WithTick(time.Millisecond), WithDuration(0.02))
	require.NoError(t, p.Open(context.Background(), Asset{}))
	assert.Equal(t, 0.02, p.Duration())

	done := make(chan float64, 1)
	p.OnTimeUpdate(func(pos float64) {
		if pos >= 0.02 {
			select {
			case done <- pos:
			default:
			}
		}
	})
	require.NoError(t, p.Play())

	select {
	case pos := <-done:
		assert.Equal(t, 0.02, pos)
	case <-time.After(2 * time.Second):
		t.Fatal("no final tick")
	}
	assert.Eventually(t, func() bool { return !p.Playing() }, time.Second, time.Millisecond)
}

func TestClockPlayerClose(t *testing.T) {
	p := NewClockPlayer()
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Open(context.Background(), Asset{}), ErrClosed)
	assert.ErrorIs(t, p.Seek(1), ErrClosed)
}

func TestExpandArgv(t *testing.T) {
	got := expandArgv([]string{"ffplay", "-ss", "{start}", "{file}"}, "/tmp/a.mp3", 1.25)
	assert.Equal(t, []string{"ffplay", "-ss", "1.250", "/tmp/a.mp3"}, got)
}

func TestNewCommandPlayerMissingBinary(t *testing.T) {
	_, err := NewCommandPlayer([]string{"definitely-not-a-player-binary"}, nil)
	assert.Error(t, err)
	_, err = NewCommandPlayer(nil, nil)
	assert.Error(t, err)
}
