package links

import (
	"github.com/samber/lo"
)

const (
	ContainerMP4   = "mp4"
	UnknownQuality = "Unknown Quality"
)

// Playable reports whether a stream is an MP4 rendition with both audio and
// video tracks.
func Playable(s Stream) bool {
	return s.Container == ContainerMP4 && s.HasVideo && s.HasAudio
}

// Select applies the selection policy to a manifest. Resolver order is kept.
func Select(m Manifest) []MediaFormat {
	playable := lo.Filter(m.Formats, func(s Stream, _ int) bool {
		return Playable(s)
	})

	return lo.Map(playable, func(s Stream, _ int) MediaFormat {
		return MediaFormat{
			URL:     s.URL,
			Quality: s.QualityLabel.OrElse(UnknownQuality),
			Format:  lo.Ternary(s.Container != "", s.Container, ContainerMP4),
		}
	})
}
