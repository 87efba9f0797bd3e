package playback

import "time"

// EventKind enumerates the visual element's playback transitions.
type EventKind string

const (
	EventPlay  EventKind = "play"
	EventPause EventKind = "pause"
	EventSeek  EventKind = "seek"
	EventEnded EventKind = "ended"
)

// Event is one playback transition of the visual element, carrying the
// visual's position at the moment the event fired.
type Event struct {
	Kind     EventKind
	Position time.Duration
}

// Binder mirrors a visual element's play/pause/seek state onto an
// independently produced narration track. The sync is soft: the position is
// copied at event time, not continuously reconciled, which holds up because
// narration scripts are short enough to match the clip length convention.
type Binder struct {
	narration Player
}

// Bind attaches a narration player. The returned binder stays valid for the
// life of the visual element.
func Bind(narration Player) *Binder {
	return &Binder{narration: narration}
}

// HandleEvent applies one visual-side transition to the narration track.
// Starting playback seeks narration to the visual's position before starting
// it, so the two tracks appear to play as one. The clip ending pauses
// narration and rewinds it to zero.
func (b *Binder) HandleEvent(ev Event) {
	if b == nil || b.narration == nil {
		return
	}
	switch ev.Kind {
	case EventPlay:
		b.narration.SeekTo(ev.Position)
		b.narration.Play()
	case EventPause:
		b.narration.Pause()
	case EventSeek:
		b.narration.SeekTo(ev.Position)
	case EventEnded:
		b.narration.Pause()
		b.narration.SeekTo(0)
	}
}
