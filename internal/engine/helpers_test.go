package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
)

func chars(s string) []string {
	return strings.Split(s, "")
}

func build(t *testing.T, sections ...unit.Section) *unit.Sequence {
	t.Helper()
	seq, err := unit.Build(sections)
	require.NoError(t, err)
	return seq
}

func typed(s string) unit.Section {
	return unit.Section{Modality: unit.Type, Tokens: chars(s)}
}

func written(s string) unit.Section {
	return unit.Section{Modality: unit.Write, Tokens: chars(s)}
}

func heard(s string) unit.Section {
	return unit.Section{Modality: unit.Listen, Tokens: chars(s)}
}

func diagram(lines ...string) unit.Section {
	return unit.Section{Modality: unit.Diagram, Tokens: lines}
}

// press returns an unstamped rune event.
func press(r rune) key.Event {
	return key.Event{Key: key.KeyRune, Rune: r}
}

func special(k key.Key) key.Event {
	return key.Event{Key: k}
}

func mustHandle(t *testing.T, e *Engine, evs ...key.Event) {
	t.Helper()
	for _, ev := range evs {
		require.NoError(t, e.HandleKey(context.Background(), ev))
	}
}

// stepPlayer is a Player whose position moves only when the test says so.
type stepPlayer struct {
	mu      sync.Mutex
	playing bool
	pos     float64
	onTick  func(float64)
}

func (p *stepPlayer) Open(context.Context, audio.Asset) error { return nil }

func (p *stepPlayer) Seek(s float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = s
	return nil
}

func (p *stepPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	return nil
}

func (p *stepPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *stepPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *stepPlayer) OnTimeUpdate(fn func(float64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTick = fn
}

func (p *stepPlayer) Close() error { return nil }

func (p *stepPlayer) isPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *stepPlayer) advance(pos float64) {
	p.mu.Lock()
	p.pos = pos
	fn := p.onTick
	p.mu.Unlock()
	fn(pos)
}

// wav is a minimal RIFF/WAVE header.
var wav = []byte{
	'R', 'I', 'F', 'F', 0x24, 0, 0, 0, 'W', 'A', 'V', 'E',
	'f', 'm', 't', ' ', 16, 0, 0, 0, 1, 0, 1, 0,
	0x40, 0x1f, 0, 0, 0x80, 0x3e, 0, 0, 2, 0, 16, 0,
	'd', 'a', 't', 'a', 0, 0, 0, 0,
}

// loadedTimeline returns a ready timeline over a step player.
func loadedTimeline(t *testing.T, stamps []audio.Timestamp) (*audio.Timeline, *stepPlayer) {
	t.Helper()
	p := &stepPlayer{}
	tl := audio.NewTimeline(p)
	require.NoError(t, tl.Load(context.Background(), writeClip(t)).Wait(context.Background()))
	tl.SetTimestamps(stamps)
	return tl, p
}

// handleAsync runs HandleKey in a goroutine and returns its result channel.
func handleAsync(e *Engine, ev key.Event) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- e.HandleKey(context.Background(), ev)
	}()
	return done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("HandleKey did not return")
		return nil
	}
}

const keyBackspace = key.KeyBackspace

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, wav, 0o644))
	return path
}
