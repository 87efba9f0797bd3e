package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sceneforge/internal/genclient"
	"sceneforge/internal/retry"
)

type contentGenerateRequest struct {
	Model    string `json:"model"`
	Contents any    `json:"contents"`
}

// ContentGenerate runs one content generation call. Transport failures are
// retried until the caller gives up; terminal conditions surface at once.
func (a *App) ContentGenerate(w http.ResponseWriter, r *http.Request) {
	var req contentGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Model == "" {
		req.Model = a.Cfg.PromptModel
	}

	result, err := retry.Do(r.Context(), a.Logger, a.Retry,
		func(ctx context.Context) (*genclient.ContentResult, error) {
			res, err := a.Gen.GenerateContent(ctx, req.Model, req.Contents)
			return res, permanentIfTerminal(err)
		},
		func(attempt int, delay time.Duration) {
			a.Logger.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("content generation retrying")
		})
	if err != nil {
		a.generationError(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
