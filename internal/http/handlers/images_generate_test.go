package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"sceneforge/internal/domain"
	"sceneforge/internal/genclient"
)

func TestImagesGenerateRegistersAssets(t *testing.T) {
	gen := &fakeGen{
		images: func(ctx context.Context, req genclient.ImageRequest) ([]genclient.ImageResult, error) {
			if req.NumberOfImages != 2 {
				t.Fatalf("NumberOfImages = %d, want 2", req.NumberOfImages)
			}
			return []genclient.ImageResult{
				{
					Resource: domain.Resource{ID: 1, Title: "A", URL: "https://site/a", PreviewURL: "https://cdn/a.jpg"},
					Inline:   &domain.InlineData{MIMEType: "image/jpeg", Data: []byte{1}},
				},
				{
					Resource: domain.Resource{ID: 2, Title: "B", URL: "https://site/b", PreviewURL: "https://cdn/b.png"},
					Inline:   &domain.InlineData{MIMEType: "image/png", Data: []byte{2}},
				},
			}, nil
		},
	}
	app := newTestApp(gen)

	rec := doRequest(app, http.MethodPost, "/v1/images/generate", strings.NewReader(`{"prompt":"harbor","count":2}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp imagesGenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(resp.Assets))
	}
	if !strings.HasSuffix(resp.Assets[1].Filename, ".png") {
		t.Fatalf("filename = %q, want png extension", resp.Assets[1].Filename)
	}
	if got := len(app.Registry.List()); got != 2 {
		t.Fatalf("registry = %d assets, want 2", got)
	}
}

func TestImagesGenerateRetriesTransportFailures(t *testing.T) {
	calls := 0
	gen := &fakeGen{
		images: func(ctx context.Context, req genclient.ImageRequest) ([]genclient.ImageResult, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection reset")
			}
			return []genclient.ImageResult{{
				Resource: domain.Resource{ID: 1, URL: "https://site/a", PreviewURL: "https://cdn/a.jpg"},
				Inline:   &domain.InlineData{MIMEType: "image/jpeg", Data: []byte{1}},
			}}, nil
		},
	}
	app := newTestApp(gen)

	rec := doRequest(app, http.MethodPost, "/v1/images/generate", strings.NewReader(`{"prompt":"x"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (two retries)", calls)
	}
}

func TestImagesGenerateNoResultIsNotRetried(t *testing.T) {
	calls := 0
	gen := &fakeGen{
		images: func(ctx context.Context, req genclient.ImageRequest) ([]genclient.ImageResult, error) {
			calls++
			return nil, domain.ErrNoImages
		},
	}
	app := newTestApp(gen)

	rec := doRequest(app, http.MethodPost, "/v1/images/generate", strings.NewReader(`{"prompt":"x"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (terminal, no retry)", calls)
	}
}

func TestImagesGenerateMissingKey(t *testing.T) {
	gen := &fakeGen{
		images: func(ctx context.Context, req genclient.ImageRequest) ([]genclient.ImageResult, error) {
			return nil, domain.ErrMissingAPIKey
		},
	}
	app := newTestApp(gen)

	rec := doRequest(app, http.MethodPost, "/v1/images/generate", strings.NewReader(`{"prompt":"x"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing_api_key") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestImagesGenerateEmptyPrompt(t *testing.T) {
	app := newTestApp(&fakeGen{})
	rec := doRequest(app, http.MethodPost, "/v1/images/generate", strings.NewReader(`{"prompt":"  "}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
