package domain

// OperationState tracks a video generation job through its lifecycle. The
// pipeline resolves generation synchronously, so every Operation handed to a
// caller is already done; the pending state exists for the accessor contract.
type OperationState string

const (
	OperationPending OperationState = "PENDING"
	OperationDone    OperationState = "DONE"
)

// GeneratedVideo is one produced clip inside an Operation response.
type GeneratedVideo struct {
	URI       string `json:"uri"`
	Title     string `json:"title,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// VideoResponse is the payload of a completed video Operation.
type VideoResponse struct {
	GeneratedVideos []GeneratedVideo `json:"generated_videos"`
}

// Operation is the result envelope of a video generation job.
type Operation struct {
	Name     string            `json:"name"`
	State    OperationState    `json:"state"`
	Done     bool              `json:"done"`
	Response *VideoResponse    `json:"response,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
