package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/angeloszaimis/download-links/internal/links"
)

// VideoClient is the part of *youtube.Client the resolver uses.
type VideoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
}

var _ VideoClient = (*youtube.Client)(nil)

// YouTube resolves manifests from the YouTube watch page.
type YouTube struct {
	client  VideoClient
	timeout time.Duration
}

// NewYouTube builds a resolver that talks to YouTube through httpClient.
// A zero timeout leaves the deadline to the caller's context.
func NewYouTube(httpClient *http.Client, timeout time.Duration) *YouTube {
	return NewYouTubeWithClient(&youtube.Client{HTTPClient: httpClient}, timeout)
}

func NewYouTubeWithClient(client VideoClient, timeout time.Duration) *YouTube {
	return &YouTube{
		client:  client,
		timeout: timeout,
	}
}

func (y *YouTube) Resolve(ctx context.Context, watchURL string) (links.Manifest, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	video, err := y.client.GetVideoContext(ctx, watchURL)
	if err != nil {
		return links.Manifest{}, upstreamError(err)
	}

	streams := make([]links.Stream, 0, len(video.Formats))
	for i := range video.Formats {
		format := &video.Formats[i]

		url, err := y.client.GetStreamURLContext(ctx, video, format)
		if err != nil {
			return links.Manifest{}, fmt.Errorf("resolve stream url for itag %d: %w", format.ItagNo, err)
		}

		streams = append(streams, streamFromFormat(*format, url))
	}

	return links.Manifest{Formats: streams}, nil
}

// playabilityError reports the upstream's own reason, e.g. "Video unavailable".
type playabilityError struct {
	cause youtube.ErrPlayabiltyStatus
}

func (e playabilityError) Error() string {
	return e.cause.Reason
}

func (e playabilityError) Unwrap() error {
	return e.cause
}

func upstreamError(err error) error {
	var status youtube.ErrPlayabiltyStatus
	if errors.As(err, &status) && status.Reason != "" {
		return playabilityError{cause: status}
	}
	return err
}
