package domain

import "errors"

var (
	ErrMissingAPIKey  = errors.New("generation api key is not configured")
	ErrNoResource     = errors.New("no matching resource")
	ErrNoImages       = errors.New("no images found")
	ErrNoVideos       = errors.New("no videos found")
	ErrMalformedReply = errors.New("malformed generation reply")
	ErrNotFound       = errors.New("not found")
)
