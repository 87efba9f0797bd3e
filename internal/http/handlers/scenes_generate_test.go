package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"sceneforge/internal/domain"
	"sceneforge/internal/genclient"
)

func sceneOp(uri, title string) *domain.Operation {
	return &domain.Operation{
		Name:  "operations/test",
		State: domain.OperationDone,
		Done:  true,
		Response: &domain.VideoResponse{GeneratedVideos: []domain.GeneratedVideo{
			{URI: uri, Title: title},
		}},
	}
}

func TestScenesGenerateKeepsSlotOrderAndIsolatesFailures(t *testing.T) {
	gen := &fakeGen{
		videos: func(ctx context.Context, req genclient.VideoRequest) (*domain.Operation, error) {
			if strings.Contains(req.Prompt, "broken") {
				return nil, domain.ErrNoVideos
			}
			return sceneOp("https://cdn/"+req.Prompt+".mp4", req.Prompt), nil
		},
	}
	app := newTestApp(gen)

	body := `{"prompts":["dawn","broken scene","dusk"],"batch_size":2}`
	rec := doRequest(app, http.MethodPost, "/v1/scenes/generate", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp scenesGenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Scenes) != 3 {
		t.Fatalf("scenes = %d, want 3", len(resp.Scenes))
	}
	if resp.Scenes[0].Status != "ok" || resp.Scenes[0].Scene.Prompt != "dawn" {
		t.Fatalf("slot 0 = %+v", resp.Scenes[0])
	}
	if resp.Scenes[1].Status != "failed" || resp.Scenes[1].Error == "" {
		t.Fatalf("slot 1 = %+v, want inline failure", resp.Scenes[1])
	}
	if resp.Scenes[2].Status != "ok" || resp.Scenes[2].Scene.Video.URI != "https://cdn/dusk.mp4" {
		t.Fatalf("slot 2 = %+v", resp.Scenes[2])
	}
	// Only the two successful scenes registered assets.
	if got := len(app.Registry.List()); got != 2 {
		t.Fatalf("registry = %d assets, want 2", got)
	}
}

func TestScenesGenerateWithNarration(t *testing.T) {
	gen := &fakeGen{
		videos: func(ctx context.Context, req genclient.VideoRequest) (*domain.Operation, error) {
			return sceneOp("https://cdn/clip.mp4", "Harbor at dawn"), nil
		},
		content: func(ctx context.Context, model string, contents any) (*genclient.ContentResult, error) {
			return &genclient.ContentResult{Text: "Golden light spills across the quiet harbor water today"}, nil
		},
	}
	app := newTestApp(gen)

	rec := doRequest(app, http.MethodPost, "/v1/scenes/generate", strings.NewReader(`{"prompts":["harbor"],"narration":true}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp scenesGenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	script := resp.Scenes[0].Scene.Narration
	if script == "" {
		t.Fatal("expected a narration script")
	}
	if got := len(strings.Fields(script)); got > narrationWordLimit {
		t.Fatalf("narration = %d words, want <= %d", got, narrationWordLimit)
	}
}

func TestScenesGenerateRequiresPrompts(t *testing.T) {
	app := newTestApp(&fakeGen{})
	rec := doRequest(app, http.MethodPost, "/v1/scenes/generate", strings.NewReader(`{"prompts":[]}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
