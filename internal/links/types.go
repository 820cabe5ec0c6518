package links

import (
	"context"

	"github.com/samber/mo"
)

// Request is the decoded invocation payload.
type Request struct {
	VideoID string `json:"videoId"`
}

// MediaFormat is one rendition exposed to the caller.
type MediaFormat struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// Stream is a single rendition as reported by the resolver.
type Stream struct {
	Container    string
	HasVideo     bool
	HasAudio     bool
	QualityLabel mo.Option[string]
	URL          string
}

// Manifest is the full set of renditions available for a video, in the
// order the resolver returned them.
type Manifest struct {
	Formats []Stream
}

// Resolver fetches the manifest for a watch URL. Errors carry a message that
// is safe to show to the caller.
type Resolver interface {
	Resolve(ctx context.Context, watchURL string) (Manifest, error)
}
