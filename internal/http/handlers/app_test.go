package handlers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"sceneforge/internal/domain"
	"sceneforge/internal/genclient"
	"sceneforge/internal/infra"
	"sceneforge/internal/infra/ipinfo"
)

type fakeGen struct {
	content func(context.Context, string, any) (*genclient.ContentResult, error)
	images  func(context.Context, genclient.ImageRequest) ([]genclient.ImageResult, error)
	videos  func(context.Context, genclient.VideoRequest) (*domain.Operation, error)
}

func (f *fakeGen) GenerateContent(ctx context.Context, model string, contents any) (*genclient.ContentResult, error) {
	if f.content != nil {
		return f.content(ctx, model, contents)
	}
	return &genclient.ContentResult{Text: "stub narration"}, nil
}

func (f *fakeGen) GenerateImages(ctx context.Context, req genclient.ImageRequest) ([]genclient.ImageResult, error) {
	if f.images != nil {
		return f.images(ctx, req)
	}
	return nil, errors.New("images not implemented")
}

func (f *fakeGen) GenerateVideos(ctx context.Context, req genclient.VideoRequest) (*domain.Operation, error) {
	if f.videos != nil {
		return f.videos(ctx, req)
	}
	return nil, errors.New("videos not implemented")
}

func (f *fakeGen) GetVideosOperation(op *domain.Operation) *domain.Operation { return op }

type fakeEnhancer func(context.Context, string) string

func (f fakeEnhancer) Enhance(ctx context.Context, prompt string) string { return f(ctx, prompt) }

func identityEnhancer() fakeEnhancer {
	return func(ctx context.Context, prompt string) string { return prompt }
}

type fakeProber struct{ info *ipinfo.Info }

func (f fakeProber) Probe(context.Context) *ipinfo.Info { return f.info }

func newTestApp(gen Generator) *App {
	cfg := &infra.Config{
		AppEnv:      "test",
		PromptModel: "scene-text-v1",
		RetryDelay:  time.Microsecond,
		BatchSize:   2,
		SceneLength: 8 * time.Second,
	}
	app := NewApp(Options{
		Config:   cfg,
		Logger:   zerolog.New(io.Discard),
		Gen:      gen,
		Enhancer: identityEnhancer(),
		Prober:   fakeProber{},
	})
	// Bounded retries keep failure-path tests deterministic.
	app.Retry.MaxAttempts = 3
	return app
}

func doRequest(app *App, method, target string, body io.Reader) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/ipinfo", app.IPInfo)
	r.Post("/v1/prompts/enhance", app.PromptEnhance)
	r.Post("/v1/content/generate", app.ContentGenerate)
	r.Post("/v1/images/generate", app.ImagesGenerate)
	r.Post("/v1/videos/generate", app.VideosGenerate)
	r.Post("/v1/videos/operation", app.VideosOperation)
	r.Post("/v1/scenes/generate", app.ScenesGenerate)
	r.Post("/v1/playback/simulate", app.PlaybackSimulate)
	r.Get("/v1/assets", app.AssetsList)
	r.Get("/v1/assets/archive", app.AssetsArchive)
	r.Get("/v1/assets/{filename}", app.AssetDownload)
	r.Delete("/v1/assets/{filename}", app.AssetDelete)

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
