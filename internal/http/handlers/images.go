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
	"sceneforge/internal/notify"
	"sceneforge/internal/registry"
	"sceneforge/internal/retry"
)

type imagesGenerateRequest struct {
	Prompt  string `json:"prompt"`
	Count   int    `json:"count"`
	Enhance bool   `json:"enhance"`
}

type imageAssetPayload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type imagesGenerateResponse struct {
	Prompt string              `json:"prompt"`
	Assets []imageAssetPayload `json:"assets"`
}

// ImagesGenerate produces up to count inline-embedded images for one prompt.
// The whole generation sits behind the retry driver; unfetchable previews are
// already skipped inside the generation client.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imagesGenerateRequest
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

	results, err := retry.Do(r.Context(), a.Logger, a.Retry,
		func(ctx context.Context) ([]genclient.ImageResult, error) {
			res, err := a.Gen.GenerateImages(ctx, genclient.ImageRequest{
				Prompt:         prompt,
				NumberOfImages: req.Count,
			})
			return res, permanentIfTerminal(err)
		},
		func(attempt int, delay time.Duration) {
			a.Logger.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("image generation retrying")
		})
	if err != nil {
		a.generationError(w, err)
		return
	}

	payload := make([]imageAssetPayload, 0, len(results))
	for _, result := range results {
		asset := domain.GeneratedAsset{
			URL:      result.Resource.URL,
			Filename: registry.NewFilename("image", extensionFor(result.Inline.MIMEType)),
			Kind:     domain.AssetKindImage,
			MIMEType: result.Inline.MIMEType,
			Data:     result.Inline.Data,
		}
		a.Registry.Add(asset)
		payload = append(payload, imageAssetPayload{
			Filename: asset.Filename,
			URL:      asset.URL,
			Title:    result.Resource.Title,
			MIMEType: asset.MIMEType,
			Data:     asset.Data,
		})
		a.publish(r.Context(), notify.Message{
			Caption:  fmt.Sprintf("Generated image for %q", prompt),
			Filename: asset.Filename,
			MIMEType: asset.MIMEType,
			Data:     asset.Data,
		})
	}
	a.json(w, http.StatusOK, imagesGenerateResponse{Prompt: prompt, Assets: payload})
}

// publish hands a finished artifact to the sink without tying its fate to the
// request. The sink swallows its own failures.
func (a *App) publish(ctx context.Context, msg notify.Message) {
	go a.Sink.Publish(context.WithoutCancel(ctx), msg)
}

func extensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "png"):
		return "png"
	case strings.Contains(mimeType, "gif"):
		return "gif"
	case strings.Contains(mimeType, "webp"):
		return "webp"
	case strings.HasPrefix(mimeType, "video/"):
		return "mp4"
	case strings.HasPrefix(mimeType, "audio/"):
		return "mp3"
	default:
		return "jpg"
	}
}
