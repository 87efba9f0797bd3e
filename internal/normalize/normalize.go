package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sceneforge/internal/domain"
)

// extractor pulls one candidate value out of a loosely typed upstream record.
// Extractors are tried in order and the first non-empty result wins, which
// keeps tolerance for upstream schema drift in one place.
type extractor func(map[string]any) string

// previewExtractors covers every preview/thumbnail location observed in
// upstream responses, highest priority first.
var previewExtractors = []extractor{
	path("preview", "url"),
	field("preview_url"),
	firstOf("thumbnails", "url"),
	path("assets", "preview", "url"),
	path("media", "preview_url"),
	firstOf("video_files", "link"),
	path("video", "files", "link"),
	path("image", "source", "url"),
	field("image"),
}

var titleCaser = cases.Title(language.Und)

// Resource maps one upstream record onto the canonical Resource shape. It
// never fails: every field is coalesced best-effort and the fallback content
// type fills in when the record does not carry its own.
func Resource(record map[string]any, fallback domain.ContentType) domain.Resource {
	id := resourceID(record)
	preview := firstMatch(record, previewExtractors)

	url := asString(record["url"])
	if url == "" {
		url = asString(record["link"])
	}
	if url == "" {
		url = preview
	}
	if preview == "" {
		preview = url
	}

	contentType := fallback
	if raw := coalesce(asString(record["content_type"]), asString(record["type"])); raw != "" {
		contentType = domain.ParseContentType(raw)
	}

	return domain.Resource{
		ID:          id,
		Title:       resourceTitle(record, id),
		URL:         url,
		PreviewURL:  preview,
		Description: asString(record["description"]),
		Tags:        Tags(record["tags"]),
		ContentType: contentType,
	}
}

// Tags normalizes a raw tag list that may mix plain strings with tag objects.
// For objects the name, title, id and slug fields are tried in that order;
// empty results are dropped and the original order is preserved.
func Tags(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var tags []string
	for _, item := range items {
		var tag string
		switch v := item.(type) {
		case string:
			tag = strings.TrimSpace(v)
		case map[string]any:
			tag = coalesce(
				asString(v["name"]),
				asString(v["title"]),
				asString(v["id"]),
				asString(v["slug"]),
			)
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func resourceID(record map[string]any) int64 {
	switch v := record["id"].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	// Non-numeric or absent upstream id: a timestamp keeps the value unique
	// enough within one response batch.
	return time.Now().UnixMilli()
}

func resourceTitle(record map[string]any, id int64) string {
	if t := coalesce(asString(record["title"]), asString(record["name"])); t != "" {
		return t
	}
	if d := asString(record["description"]); d != "" {
		return d
	}
	if slug := asString(record["slug"]); slug != "" {
		return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
	}
	return fmt.Sprintf("Asset %d", id)
}

func firstMatch(record map[string]any, extractors []extractor) string {
	for _, extract := range extractors {
		if v := extract(record); v != "" {
			return v
		}
	}
	return ""
}

// field reads a top-level string field.
func field(key string) extractor {
	return func(record map[string]any) string {
		return asString(record[key])
	}
}

// path walks nested objects, reading a string leaf. Intermediate arrays take
// their first element so shapes like video.files[0].link resolve too.
func path(keys ...string) extractor {
	return func(record map[string]any) string {
		var current any = record
		for _, key := range keys {
			if items, ok := current.([]any); ok {
				if len(items) == 0 {
					return ""
				}
				current = items[0]
			}
			node, ok := current.(map[string]any)
			if !ok {
				return ""
			}
			current = node[key]
		}
		return asString(current)
	}
}

// firstOf reads key as an array and returns sub from its first usable entry.
// Entries may be plain strings or objects.
func firstOf(key, sub string) extractor {
	return func(record map[string]any) string {
		items, ok := record[key].([]any)
		if !ok {
			return ""
		}
		for _, item := range items {
			switch v := item.(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if s := asString(v[sub]); s != "" {
					return s
				}
			}
		}
		return ""
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
