package genclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sceneforge/internal/domain"
	"sceneforge/internal/normalize"
	"sceneforge/internal/stock"
)

// Searcher is the slice of the stock client the facade needs. Tests inject
// fakes through it.
type Searcher interface {
	Search(ctx context.Context, q stock.Query) ([]map[string]any, error)
	FetchInline(ctx context.Context, previewURL string) (*domain.InlineData, error)
}

// Client exposes the three generation verbs (content, images, videos) plus
// the long-running-operation accessor, all implemented on the one search
// primitive the upstream actually offers.
type Client struct {
	search Searcher
	logger zerolog.Logger
}

// ContentResult is the outcome of a content generation call: inline bytes for
// image-flavored models, text for everything else.
type ContentResult struct {
	Text   string             `json:"text,omitempty"`
	Inline *domain.InlineData `json:"inline,omitempty"`
}

// ImageRequest asks for a number of generated images for one prompt.
type ImageRequest struct {
	Prompt         string
	NumberOfImages int
}

// ImageResult pairs a normalized resource with its inline-embedded bytes.
type ImageResult struct {
	Resource domain.Resource    `json:"resource"`
	Inline   *domain.InlineData `json:"inline"`
}

// VideoRequest asks for a number of generated videos for one prompt.
type VideoRequest struct {
	Prompt         string
	NumberOfVideos int
}

const textSummaryLimit = 6

// New constructs the generation facade.
func New(search Searcher, logger zerolog.Logger) *Client {
	return &Client{search: search, logger: logger}
}

// GenerateContent flattens the request contents into one prompt and branches
// on the model flavor. Image models return exactly one inline asset or fail;
// video and text models return a multi-scene summary, degrading to echoing
// the prompt when nothing was found.
func (c *Client) GenerateContent(ctx context.Context, model string, contents any) (*ContentResult, error) {
	prompt := strings.TrimSpace(FlattenContents(contents))
	if prompt == "" {
		return nil, fmt.Errorf("%w: empty contents", domain.ErrMalformedReply)
	}

	lowered := strings.ToLower(model)
	switch {
	case strings.Contains(lowered, "image"):
		return c.imageContent(ctx, prompt)
	case strings.Contains(lowered, "video"):
		return c.summaryContent(ctx, prompt, domain.ContentTypeVideo)
	default:
		return c.summaryContent(ctx, prompt, domain.ContentTypePhoto)
	}
}

func (c *Client) imageContent(ctx context.Context, prompt string) (*ContentResult, error) {
	records, err := c.search.Search(ctx, stock.Query{
		Term:        prompt,
		ContentType: domain.ContentTypePhoto,
		Limit:       1,
		Order:       stock.OrderPopular,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoResource
	}
	res := normalize.Resource(records[0], domain.ContentTypePhoto)
	if res.PreviewURL == "" {
		return nil, domain.ErrNoResource
	}
	inline, err := c.search.FetchInline(ctx, res.PreviewURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoResource, err)
	}
	return &ContentResult{Inline: inline}, nil
}

func (c *Client) summaryContent(ctx context.Context, prompt string, ct domain.ContentType) (*ContentResult, error) {
	records, err := c.search.Search(ctx, stock.Query{
		Term:        prompt,
		ContentType: ct,
		Limit:       textSummaryLimit,
		Order:       stock.OrderPopular,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// Degrade to echoing the prompt rather than failing.
		return &ContentResult{Text: prompt}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Scenes for: %s\n", prompt)
	scene := 0
	for _, record := range records {
		if scene >= textSummaryLimit {
			break
		}
		res := normalize.Resource(record, ct)
		if res.PreviewURL == "" {
			continue
		}
		scene++
		fmt.Fprintf(&sb, "\nScene %d: %s\n", scene, res.Title)
		if res.Description != "" {
			fmt.Fprintf(&sb, "%s\n", res.Description)
		}
		if len(res.Tags) > 0 {
			fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(res.Tags, ", "))
		}
		fmt.Fprintf(&sb, "Link: %s\n", res.URL)
	}
	if scene == 0 {
		return &ContentResult{Text: prompt}, nil
	}
	return &ContentResult{Text: sb.String()}, nil
}

// GenerateImages fetches photo resources and embeds each preview inline. A
// single unfetchable preview is logged and skipped; the call fails only when
// nothing survives.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([]ImageResult, error) {
	count := req.NumberOfImages
	if count < 1 {
		count = 1
	}
	records, err := c.search.Search(ctx, stock.Query{
		Term:        req.Prompt,
		ContentType: domain.ContentTypePhoto,
		Limit:       count,
		Order:       stock.OrderPopular,
	})
	if err != nil {
		return nil, err
	}

	var results []ImageResult
	for _, record := range records {
		if len(results) >= count {
			break
		}
		res := normalize.Resource(record, domain.ContentTypePhoto)
		if res.PreviewURL == "" {
			continue
		}
		inline, err := c.search.FetchInline(ctx, res.PreviewURL)
		if err != nil {
			c.logger.Warn().Err(err).Int64("resource_id", res.ID).Msg("genclient: preview fetch failed, skipping resource")
			continue
		}
		results = append(results, ImageResult{Resource: res, Inline: inline})
	}
	if len(results) == 0 {
		return nil, domain.ErrNoImages
	}
	return results, nil
}

// GenerateVideos fetches video resources and returns a completed Operation
// referencing the first N clips. The pipeline resolves synchronously, so the
// returned Operation is always done.
func (c *Client) GenerateVideos(ctx context.Context, req VideoRequest) (*domain.Operation, error) {
	count := req.NumberOfVideos
	if count < 1 {
		count = 1
	}
	records, err := c.search.Search(ctx, stock.Query{
		Term:        req.Prompt,
		ContentType: domain.ContentTypeVideo,
		Limit:       count,
		Order:       stock.OrderPopular,
	})
	if err != nil {
		return nil, err
	}

	var videos []domain.GeneratedVideo
	for _, record := range records {
		if len(videos) >= count {
			break
		}
		res := normalize.Resource(record, domain.ContentTypeVideo)
		if res.PreviewURL == "" {
			continue
		}
		videos = append(videos, domain.GeneratedVideo{
			URI:       res.PreviewURL,
			Title:     res.Title,
			Thumbnail: res.URL,
		})
	}
	if len(videos) == 0 {
		return nil, domain.ErrNoVideos
	}
	return &domain.Operation{
		Name:     "operations/" + uuid.NewString(),
		State:    domain.OperationDone,
		Done:     true,
		Response: &domain.VideoResponse{GeneratedVideos: videos},
		Metadata: map[string]string{"prompt": req.Prompt},
	}, nil
}

// GetVideosOperation returns an already-completed operation unchanged. It
// exists for symmetry with long-running-operation APIs; nothing in this
// pipeline hands out a pending operation.
func (c *Client) GetVideosOperation(op *domain.Operation) *domain.Operation {
	if op != nil && op.Done {
		op.State = domain.OperationDone
	}
	return op
}

// FlattenContents extracts plain text from an arbitrarily nested contents
// value: a string, a list of parts, or objects shaped {parts: [...]} or
// {text: ...}. Pieces are joined by newlines.
func FlattenContents(contents any) string {
	var pieces []string
	flattenInto(&pieces, contents)
	return strings.Join(pieces, "\n")
}

func flattenInto(pieces *[]string, node any) {
	switch v := node.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			*pieces = append(*pieces, v)
		}
	case []any:
		for _, item := range v {
			flattenInto(pieces, item)
		}
	case []string:
		for _, item := range v {
			flattenInto(pieces, item)
		}
	case map[string]any:
		if text, ok := v["text"].(string); ok && strings.TrimSpace(text) != "" {
			*pieces = append(*pieces, text)
		}
		if parts, ok := v["parts"]; ok {
			flattenInto(pieces, parts)
		}
	}
}
