package playback

import (
	"sync"
	"time"
)

// Player is the minimal playback surface the binder mirrors state onto.
type Player interface {
	Play()
	Pause()
	SeekTo(pos time.Duration)
	Position() time.Duration
}

// ClipPlayer is an in-memory Player for a fixed-length clip. It advances its
// position from a monotonic clock while playing, which is enough to drive the
// binder in tests and in the playback simulation endpoint.
type ClipPlayer struct {
	mu       sync.Mutex
	duration time.Duration
	position time.Duration
	playing  bool
	since    time.Time
	now      func() time.Time
}

// NewClipPlayer builds a stopped player positioned at zero. A nil clock
// defaults to time.Now.
func NewClipPlayer(duration time.Duration, now func() time.Time) *ClipPlayer {
	if now == nil {
		now = time.Now
	}
	return &ClipPlayer{duration: duration, now: now}
}

func (p *ClipPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.playing = true
	p.since = p.now()
}

func (p *ClipPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.position = p.clampLocked(p.position + p.now().Sub(p.since))
	p.playing = false
}

func (p *ClipPlayer) SeekTo(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = p.clampLocked(pos)
	if p.playing {
		p.since = p.now()
	}
}

func (p *ClipPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return p.position
	}
	return p.clampLocked(p.position + p.now().Sub(p.since))
}

// Playing reports whether the clip is currently advancing.
func (p *ClipPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Duration returns the clip length.
func (p *ClipPlayer) Duration() time.Duration {
	return p.duration
}

func (p *ClipPlayer) clampLocked(pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if p.duration > 0 && pos > p.duration {
		return p.duration
	}
	return pos
}
