package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sceneforge/internal/batch"
	"sceneforge/internal/domain"
	"sceneforge/internal/genclient"
	"sceneforge/internal/infra"
	"sceneforge/internal/infra/ipinfo"
	"sceneforge/internal/notify"
	"sceneforge/internal/registry"
	"sceneforge/internal/retry"
)

// Generator is the slice of the generation client the handlers call. Tests
// inject fakes through it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents any) (*genclient.ContentResult, error)
	GenerateImages(ctx context.Context, req genclient.ImageRequest) ([]genclient.ImageResult, error)
	GenerateVideos(ctx context.Context, req genclient.VideoRequest) (*domain.Operation, error)
	GetVideosOperation(op *domain.Operation) *domain.Operation
}

// PromptEnhancer rewrites prompts, falling back to the original on failure.
type PromptEnhancer interface {
	Enhance(ctx context.Context, prompt string) string
}

// Prober is the advisory IP probe.
type Prober interface {
	Probe(ctx context.Context) *ipinfo.Info
}

// Options wires the App container.
type Options struct {
	Config   *infra.Config
	Logger   infra.Logger
	Gen      Generator
	Enhancer PromptEnhancer
	Registry *registry.Registry
	Sink     notify.Sink
	Prober   Prober
}

// App owns all session state for the pipeline: the asset registry, the retry
// policy and the batch executor. Nothing lives in package globals; teardown
// happens through Shutdown.
type App struct {
	Cfg      *infra.Config
	Logger   infra.Logger
	Gen      Generator
	Enhancer PromptEnhancer
	Registry *registry.Registry
	Sink     notify.Sink
	Prober   Prober
	Retry    retry.Policy
	Batch    batch.Executor
}

// NewApp builds the container. The default retry policy has no attempt cap:
// a generation runs until it succeeds or the request context is abandoned.
func NewApp(opts Options) *App {
	sink := opts.Sink
	if sink == nil {
		sink = notify.NopSink{}
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}
	return &App{
		Cfg:      opts.Config,
		Logger:   opts.Logger,
		Gen:      opts.Gen,
		Enhancer: opts.Enhancer,
		Registry: reg,
		Sink:     sink,
		Prober:   opts.Prober,
		Retry:    retry.Policy{Delay: opts.Config.RetryDelay},
		Batch:    batch.Executor{Size: opts.Config.BatchSize, Pause: opts.Config.BatchPause},
	}
}

// Shutdown clears session state at the end of the process lifecycle.
func (a *App) Shutdown() {
	a.Registry.Clear()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, msg string) {
	a.json(w, status, map[string]string{"error": code, "message": msg})
}

// generationError maps the pipeline error taxonomy onto HTTP statuses.
func (a *App) generationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingAPIKey):
		a.error(w, http.StatusBadRequest, "missing_api_key", "set STOCK_API_KEY to enable generation")
	case errors.Is(err, domain.ErrNoResource),
		errors.Is(err, domain.ErrNoImages),
		errors.Is(err, domain.ErrNoVideos):
		a.error(w, http.StatusNotFound, "no_result", err.Error())
	case errors.Is(err, domain.ErrMalformedReply):
		a.error(w, http.StatusUnprocessableEntity, "malformed_reply", "the reply was malformed, try again")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.error(w, http.StatusRequestTimeout, "abandoned", "the request was abandoned")
	default:
		a.error(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

// permanentIfTerminal marks errors the retry driver must not chew on.
func permanentIfTerminal(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingAPIKey) ||
		errors.Is(err, domain.ErrNoResource) ||
		errors.Is(err, domain.ErrNoImages) ||
		errors.Is(err, domain.ErrNoVideos) ||
		errors.Is(err, domain.ErrMalformedReply) {
		return retry.Permanent(err)
	}
	return err
}
