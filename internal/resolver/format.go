package resolver

import (
	"mime"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/angeloszaimis/download-links/internal/links"
)

var audioCodecPrefixes = []string{"mp4a", "opus", "vorbis", "ac-3", "ec-3"}

// streamFromFormat describes a youtube format in resolver-neutral terms. url
// is the playable URL after deciphering.
func streamFromFormat(f youtube.Format, url string) links.Stream {
	kind, container, codecs := parseMimeType(f.MimeType)

	hasAudio := kind == "audio" || f.AudioChannels > 0 ||
		lo.SomeBy(codecs, func(c string) bool {
			return lo.SomeBy(audioCodecPrefixes, func(p string) bool {
				return strings.HasPrefix(c, p)
			})
		})

	return links.Stream{
		Container:    container,
		HasVideo:     kind == "video",
		HasAudio:     hasAudio,
		QualityLabel: mo.EmptyableToOption(f.QualityLabel),
		URL:          url,
	}
}

// parseMimeType splits `video/mp4; codecs="avc1.42001E, mp4a.40.2"` into
// ("video", "mp4", ["avc1.42001e", "mp4a.40.2"]).
func parseMimeType(raw string) (kind, container string, codecs []string) {
	mediaType, params, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType, _, _ = strings.Cut(strings.ToLower(raw), ";")
		mediaType = strings.TrimSpace(mediaType)
	}

	kind, container, _ = strings.Cut(mediaType, "/")

	for _, c := range strings.Split(params["codecs"], ",") {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			codecs = append(codecs, c)
		}
	}

	return kind, container, codecs
}
