package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sceneforge/internal/batch"
	"sceneforge/internal/domain"
	"sceneforge/internal/genclient"
	"sceneforge/internal/notify"
	"sceneforge/internal/registry"
	"sceneforge/internal/retry"
)

type scenesGenerateRequest struct {
	Prompts   []string `json:"prompts"`
	BatchSize int      `json:"batch_size"`
	Narration bool     `json:"narration"`
}

type scenePayload struct {
	Prompt    string                `json:"prompt"`
	Enhanced  string                `json:"enhanced"`
	Video     domain.GeneratedVideo `json:"video"`
	Narration string                `json:"narration,omitempty"`
}

type sceneSlot struct {
	Index  int           `json:"index"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Scene  *scenePayload `json:"scene,omitempty"`
}

type scenesGenerateResponse struct {
	Scenes []sceneSlot `json:"scenes"`
}

// ScenesGenerate fans a multi-prompt job out through the batch executor. Each
// prompt owns slot i of the response from the moment the job starts, so a
// slow or failed scene never shifts its siblings; failures land as inline
// status text on their own slot.
func (a *App) ScenesGenerate(w http.ResponseWriter, r *http.Request) {
	var req scenesGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.Prompts) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "at least one prompt is required")
		return
	}

	executor := a.Batch
	if req.BatchSize > 0 {
		executor.Size = req.BatchSize
	}

	results := batch.Run(r.Context(), executor, len(req.Prompts),
		func(ctx context.Context, i int) (*scenePayload, error) {
			return a.generateScene(ctx, req.Prompts[i], req.Narration)
		})

	slots := make([]sceneSlot, len(results))
	for i, result := range results {
		slots[i] = sceneSlot{Index: i, Status: "ok", Scene: result.Value}
		if result.Err != nil {
			slots[i] = sceneSlot{Index: i, Status: "failed", Error: result.Err.Error()}
		}
	}
	a.json(w, http.StatusOK, scenesGenerateResponse{Scenes: slots})
}

func (a *App) generateScene(ctx context.Context, rawPrompt string, narration bool) (*scenePayload, error) {
	prompt := strings.TrimSpace(rawPrompt)
	if prompt == "" {
		return nil, fmt.Errorf("empty prompt")
	}
	enhanced := a.Enhancer.Enhance(ctx, prompt)

	op, err := retry.Do(ctx, a.Logger, a.Retry,
		func(ctx context.Context) (*domain.Operation, error) {
			op, err := a.Gen.GenerateVideos(ctx, genclient.VideoRequest{
				Prompt:         enhanced,
				NumberOfVideos: 1,
			})
			return op, permanentIfTerminal(err)
		},
		func(attempt int, delay time.Duration) {
			a.Logger.Debug().Int("attempt", attempt).Dur("delay", delay).Str("prompt", prompt).Msg("scene generation retrying")
		})
	if err != nil {
		return nil, err
	}

	video := op.Response.GeneratedVideos[0]
	a.Registry.Add(domain.GeneratedAsset{
		URL:      video.URI,
		Filename: registry.NewFilename("scene", "mp4"),
		Kind:     domain.AssetKindVideo,
		MIMEType: "video/mp4",
	})

	scene := &scenePayload{Prompt: prompt, Enhanced: enhanced, Video: video}
	if narration {
		scene.Narration = a.narrationScript(ctx, enhanced, video.Title)
	}
	a.publish(ctx, notify.Message{
		Caption:  fmt.Sprintf("Scene ready: %s", video.Title),
		Filename: "scene.txt",
		MIMEType: "text/plain",
		Data:     []byte(video.URI),
	})
	return scene, nil
}
