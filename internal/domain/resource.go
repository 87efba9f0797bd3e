package domain

// ContentType enumerates the asset categories the upstream search API knows.
type ContentType string

const (
	ContentTypePhoto        ContentType = "photo"
	ContentTypeVector       ContentType = "vector"
	ContentTypePSD          ContentType = "psd"
	ContentTypeIcon         ContentType = "icon"
	ContentTypeTemplate     ContentType = "template"
	ContentTypeVideo        ContentType = "video"
	ContentTypeMockup       ContentType = "mockup"
	ContentTypeBackground   ContentType = "background"
	ContentTypeIllustration ContentType = "illustration"
)

// ContentTypes lists every supported category in a stable order.
var ContentTypes = []ContentType{
	ContentTypePhoto,
	ContentTypeVector,
	ContentTypePSD,
	ContentTypeIcon,
	ContentTypeTemplate,
	ContentTypeVideo,
	ContentTypeMockup,
	ContentTypeBackground,
	ContentTypeIllustration,
}

// ParseContentType maps a raw string onto a known ContentType, defaulting to
// photo when the value is unknown or empty.
func ParseContentType(raw string) ContentType {
	for _, ct := range ContentTypes {
		if string(ct) == raw {
			return ct
		}
	}
	return ContentTypePhoto
}

// Resource is the canonical representation of one upstream asset. Instances
// are produced by the normalizer and never mutated afterwards. The ID is only
// unique within a single response batch.
type Resource struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	PreviewURL  string      `json:"preview_url"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	ContentType ContentType `json:"content_type"`
}

// InlineData carries preview bytes that were fetched and embedded in place of
// a remote reference.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}
