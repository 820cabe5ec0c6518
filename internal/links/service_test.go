package links_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/samber/mo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/download-links/internal/links"
)

type fakeResolver struct {
	mu       sync.Mutex
	manifest links.Manifest
	err      error
	panicMsg string
	urls     []string
}

func (f *fakeResolver) Resolve(_ context.Context, watchURL string) (links.Manifest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.urls = append(f.urls, watchURL)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.manifest, f.err
}

func (f *fakeResolver) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

var _ = Describe("Service", func() {
	var (
		resolver *fakeResolver
		svc      *links.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		resolver = &fakeResolver{}
		svc = links.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), resolver, nil)
		ctx = context.Background()
	})

	Describe("Handle", func() {
		It("should return the playable formats", func() {
			resolver.manifest = links.Manifest{Formats: []links.Stream{
				{Container: "mp4", HasVideo: true, HasAudio: true, QualityLabel: mo.Some("720p"), URL: "https://x/1"},
				{Container: "webm", HasVideo: true, HasAudio: true, QualityLabel: mo.Some("1080p"), URL: "https://x/2"},
			}}

			out := svc.Handle(ctx, []byte(`{"videoId":"dQw4w9WgXcQ"}`))
			Expect(out.Kind).To(Equal(links.KindOK))
			Expect(out.StatusCode()).To(Equal(http.StatusOK))
			Expect(out.Payload()).To(Equal([]links.MediaFormat{
				{URL: "https://x/1", Quality: "720p", Format: "mp4"},
			}))
			Expect(resolver.urls).To(Equal([]string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}))
		})

		DescribeTable("rejects invalid input without calling the resolver",
			func(body string) {
				out := svc.Handle(ctx, []byte(body))
				Expect(out.Kind).To(Equal(links.KindInvalidRequest))
				Expect(out.StatusCode()).To(Equal(http.StatusBadRequest))
				Expect(out.Payload()).To(Equal(links.ErrorBody{Error: links.MsgInvalidVideoID}))
				Expect(resolver.calls()).To(BeZero())
			},
			Entry("short id", `{"videoId":"short"}`),
			Entry("missing id", `{}`),
			Entry("null body", `null`),
			Entry("empty id", `{"videoId":""}`),
			Entry("malformed JSON", `{videoId: dQw4w9WgXcQ}`),
			Entry("empty body", ``),
		)

		It("should report not found when nothing is playable", func() {
			resolver.manifest = links.Manifest{Formats: []links.Stream{
				{Container: "webm", HasVideo: true, HasAudio: true, URL: "https://x/2"},
			}}

			out := svc.Handle(ctx, []byte(`{"videoId":"dQw4w9WgXcQ"}`))
			Expect(out.Kind).To(Equal(links.KindNotFound))
			Expect(out.StatusCode()).To(Equal(http.StatusNotFound))
			Expect(out.Payload()).To(Equal(links.ErrorBody{Error: "No suitable video formats found."}))
		})

		It("should report resolver failures with the upstream message", func() {
			resolver.err = errors.New("Video unavailable")

			out := svc.Handle(ctx, []byte(`{"videoId":"dQw4w9WgXcQ"}`))
			Expect(out.Kind).To(Equal(links.KindUpstreamFailed))
			Expect(out.StatusCode()).To(Equal(http.StatusInternalServerError))
			Expect(out.Payload()).To(Equal(links.ErrorBody{Error: "Failed to fetch download links: Video unavailable"}))
			Expect(resolver.calls()).To(Equal(1))
		})

		It("should turn a panic into a failure outcome", func() {
			resolver.panicMsg = "unexpected page layout"

			out := svc.Handle(ctx, []byte(`{"videoId":"dQw4w9WgXcQ"}`))
			Expect(out.StatusCode()).To(Equal(http.StatusInternalServerError))
			Expect(out.Payload()).To(Equal(links.ErrorBody{Error: "Failed to fetch download links: unexpected page layout"}))
		})

		It("should produce identical output for identical invocations", func() {
			resolver.manifest = links.Manifest{Formats: []links.Stream{
				{Container: "mp4", HasVideo: true, HasAudio: true, URL: "https://x/1"},
			}}
			body := []byte(`{"videoId":"dQw4w9WgXcQ"}`)

			first := svc.Handle(ctx, body)
			second := svc.Handle(ctx, body)
			Expect(second).To(Equal(first))
			Expect(first.Payload()).To(Equal([]links.MediaFormat{
				{URL: "https://x/1", Quality: "Unknown Quality", Format: "mp4"},
			}))
		})
	})

	Describe("Fetch", func() {
		It("should count every playable format", func() {
			streams := []links.Stream{}
			for i := 0; i < 6; i++ {
				streams = append(streams,
					links.Stream{Container: "mp4", HasVideo: true, HasAudio: i%2 == 0, URL: "u"})
			}
			resolver.manifest = links.Manifest{Formats: streams}

			out := svc.Fetch(ctx, links.Request{VideoID: "dQw4w9WgXcQ"})
			Expect(out.Kind).To(Equal(links.KindOK))
			Expect(out.Formats).To(HaveLen(3))
		})
	})
})

var _ = Describe("Kind", func() {
	It("should name every outcome", func() {
		Expect(links.KindOK.String()).To(Equal("ok"))
		Expect(links.KindInvalidRequest.String()).To(Equal("invalid_request"))
		Expect(links.KindNotFound.String()).To(Equal("not_found"))
		Expect(links.KindUpstreamFailed.String()).To(Equal("upstream_failed"))
	})
})
