package audio

import (
	"context"
	"sync"
)

// fakePlayer is a manually driven Player.
type fakePlayer struct {
	mu      sync.Mutex
	opened  bool
	playing bool
	pos     float64
	seeks   []float64
	playErr error
	openErr error
	onTick  func(float64)
	closed  bool
}

func (p *fakePlayer) Open(context.Context, Asset) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openErr != nil {
		return p.openErr
	}
	p.opened = true
	return nil
}

func (p *fakePlayer) Seek(s float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = s
	p.seeks = append(p.seeks, s)
	return nil
}

func (p *fakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playErr != nil {
		return p.playErr
	}
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakePlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *fakePlayer) OnTimeUpdate(fn func(float64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTick = fn
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePlayer) isPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// advance moves the position and delivers one tick.
func (p *fakePlayer) advance(pos float64) {
	p.mu.Lock()
	p.pos = pos
	fn := p.onTick
	p.mu.Unlock()
	if fn != nil {
		fn(pos)
	}
}
