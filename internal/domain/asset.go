package domain

import "time"

// AssetKind enumerates generated artifact types.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
	AssetKindAudio AssetKind = "audio"
)

// GeneratedAsset represents a materialized artifact tracked by the session
// registry. Filenames are the deletion key, so they must be collision
// resistant (the registry mints them from UUIDs).
type GeneratedAsset struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Kind      AssetKind `json:"kind"`
	MIMEType  string    `json:"mime_type,omitempty"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
