package prompt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"sceneforge/internal/genclient"
)

type fakeGenerator func(context.Context, string, any) (*genclient.ContentResult, error)

func (f fakeGenerator) GenerateContent(ctx context.Context, model string, contents any) (*genclient.ContentResult, error) {
	return f(ctx, model, contents)
}

func TestEnhanceReturnsRewrittenText(t *testing.T) {
	gen := fakeGenerator(func(ctx context.Context, model string, contents any) (*genclient.ContentResult, error) {
		text, _ := contents.(string)
		if !strings.Contains(text, "a boat") {
			t.Fatalf("instruction missing original prompt: %q", text)
		}
		return &genclient.ContentResult{Text: "A lone boat drifts through golden fog, low-angle shot, serene."}, nil
	})
	enhancer := NewEnhancer(gen, "", zerolog.New(io.Discard))
	got := enhancer.Enhance(context.Background(), "a boat")
	if got == "a boat" {
		t.Fatal("expected a rewritten prompt")
	}
	if !strings.Contains(got, "golden fog") {
		t.Fatalf("Enhance = %q", got)
	}
}

func TestEnhanceFallsBackOnError(t *testing.T) {
	gen := fakeGenerator(func(ctx context.Context, model string, contents any) (*genclient.ContentResult, error) {
		return nil, errors.New("upstream down")
	})
	enhancer := NewEnhancer(gen, "", zerolog.New(io.Discard))
	if got := enhancer.Enhance(context.Background(), "a boat"); got != "a boat" {
		t.Fatalf("Enhance = %q, want original back", got)
	}
}

func TestEnhanceFallsBackOnEmptyReply(t *testing.T) {
	gen := fakeGenerator(func(ctx context.Context, model string, contents any) (*genclient.ContentResult, error) {
		return &genclient.ContentResult{Text: "   "}, nil
	})
	enhancer := NewEnhancer(gen, "", zerolog.New(io.Discard))
	if got := enhancer.Enhance(context.Background(), "a boat"); got != "a boat" {
		t.Fatalf("Enhance = %q, want original back", got)
	}
}
