package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sceneforge/internal/domain"
	"sceneforge/internal/genclient"
	"sceneforge/internal/registry"
	"sceneforge/internal/retry"
)

// narrationWordLimit keeps scripts short enough to soft-sync with the clip
// length convention.
const narrationWordLimit = 8

type videosGenerateRequest struct {
	Prompt    string `json:"prompt"`
	Count     int    `json:"count"`
	Enhance   bool   `json:"enhance"`
	Narration bool   `json:"narration"`
}

type narrationPayload struct {
	URI    string `json:"uri"`
	Script string `json:"script"`
}

type videosGenerateResponse struct {
	Prompt    string             `json:"prompt"`
	Operation *domain.Operation  `json:"operation"`
	Narration []narrationPayload `json:"narration,omitempty"`
}

// VideosGenerate produces a completed video Operation for one prompt,
// optionally with one short narration script per clip.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req videosGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}

	prompt := req.Prompt
	if req.Enhance {
		prompt = a.Enhancer.Enhance(r.Context(), prompt)
	}

	op, err := retry.Do(r.Context(), a.Logger, a.Retry,
		func(ctx context.Context) (*domain.Operation, error) {
			op, err := a.Gen.GenerateVideos(ctx, genclient.VideoRequest{
				Prompt:         prompt,
				NumberOfVideos: req.Count,
			})
			return op, permanentIfTerminal(err)
		},
		func(attempt int, delay time.Duration) {
			a.Logger.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("video generation retrying")
		})
	if err != nil {
		a.generationError(w, err)
		return
	}

	resp := videosGenerateResponse{Prompt: prompt, Operation: op}
	for _, video := range op.Response.GeneratedVideos {
		a.Registry.Add(domain.GeneratedAsset{
			URL:      video.URI,
			Filename: registry.NewFilename("video", "mp4"),
			Kind:     domain.AssetKindVideo,
			MIMEType: "video/mp4",
		})
		if req.Narration {
			resp.Narration = append(resp.Narration, narrationPayload{
				URI:    video.URI,
				Script: a.narrationScript(r.Context(), prompt, video.Title),
			})
		}
	}
	a.json(w, http.StatusOK, resp)
}

// VideosOperation is the long-running-operation accessor: it echoes an
// already-completed operation back unchanged, mirroring long-poll APIs even
// though this pipeline never hands out a pending operation.
func (a *App) VideosOperation(w http.ResponseWriter, r *http.Request) {
	var op domain.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid operation payload")
		return
	}
	a.json(w, http.StatusOK, a.Gen.GetVideosOperation(&op))
}

// narrationScript asks the text model for a short voice-over line and clamps
// it to the word limit. Failures degrade to a trimmed form of the title so a
// clip never loses its narration slot.
func (a *App) narrationScript(ctx context.Context, prompt, title string) string {
	subject := title
	if subject == "" {
		subject = prompt
	}
	instruction := fmt.Sprintf(
		"Write a voice-over line of at most %d words for a short clip about: %s",
		narrationWordLimit, subject)
	res, err := a.Gen.GenerateContent(ctx, a.Cfg.PromptModel, instruction)
	if err != nil || strings.TrimSpace(res.Text) == "" {
		return clampWords(subject, narrationWordLimit)
	}
	return clampWords(res.Text, narrationWordLimit)
}

func clampWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}
