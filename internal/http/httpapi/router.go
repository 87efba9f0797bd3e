package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"sceneforge/internal/http/handlers"
	"sceneforge/internal/middleware"
)

// RouterOptions tunes the cross-cutting middleware.
type RouterOptions struct {
	AllowedOrigins  []string
	RateLimitPerMin int
}

// NewRouter assembles the API surface. Generation endpoints sit behind the
// rate limiter; everything shares request ids and structured request logs.
func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/ipinfo", app.IPInfo)

	r.Route("/v1", func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		}
		r.Post("/prompts/enhance", app.PromptEnhance)
		r.Post("/content/generate", app.ContentGenerate)
		r.Post("/images/generate", app.ImagesGenerate)
		r.Post("/videos/generate", app.VideosGenerate)
		r.Post("/videos/operation", app.VideosOperation)
		r.Post("/scenes/generate", app.ScenesGenerate)
		r.Post("/playback/simulate", app.PlaybackSimulate)

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", app.AssetsList)
			r.Get("/archive", app.AssetsArchive)
			r.Get("/{filename}", app.AssetDownload)
			r.Delete("/{filename}", app.AssetDelete)
		})
	})

	return r
}
