package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"sceneforge/internal/playback"
)

type playbackEventPayload struct {
	Kind       string `json:"kind"`
	PositionMs int64  `json:"position_ms"`
	AdvanceMs  int64  `json:"advance_ms"`
}

type playbackSimulateRequest struct {
	ClipMs int64                  `json:"clip_ms"`
	Events []playbackEventPayload `json:"events"`
}

type playbackSimulateResponse struct {
	VisualPositionMs    int64 `json:"visual_position_ms"`
	NarrationPositionMs int64 `json:"narration_position_ms"`
	NarrationPlaying    bool  `json:"narration_playing"`
}

// PlaybackSimulate replays a sequence of visual-side playback events against
// a bound narration track on a virtual clock and reports where both tracks
// ended up. It exists so clients can verify the soft-sync contract without
// real media elements.
func (a *App) PlaybackSimulate(w http.ResponseWriter, r *http.Request) {
	var req playbackSimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	clipLen := time.Duration(req.ClipMs) * time.Millisecond
	if clipLen <= 0 {
		clipLen = a.Cfg.SceneLength
	}

	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	visual := playback.NewClipPlayer(clipLen, clock)
	narration := playback.NewClipPlayer(clipLen, clock)
	binder := playback.Bind(narration)

	for _, ev := range req.Events {
		pos := time.Duration(ev.PositionMs) * time.Millisecond
		switch playback.EventKind(ev.Kind) {
		case playback.EventPlay:
			visual.Play()
		case playback.EventPause:
			visual.Pause()
		case playback.EventSeek:
			visual.SeekTo(pos)
		case playback.EventEnded:
			visual.Pause()
			visual.SeekTo(clipLen)
		default:
			a.error(w, http.StatusBadRequest, "bad_request", "unknown event kind "+ev.Kind)
			return
		}
		binder.HandleEvent(playback.Event{Kind: playback.EventKind(ev.Kind), Position: visual.Position()})
		now = now.Add(time.Duration(ev.AdvanceMs) * time.Millisecond)
	}

	a.json(w, http.StatusOK, playbackSimulateResponse{
		VisualPositionMs:    visual.Position().Milliseconds(),
		NarrationPositionMs: narration.Position().Milliseconds(),
		NarrationPlaying:    narration.Playing(),
	})
}
