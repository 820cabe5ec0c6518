package handler_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/samber/mo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/download-links/internal/handler"
	"github.com/angeloszaimis/download-links/internal/links"
	"github.com/angeloszaimis/download-links/internal/metrics"
)

type fakeResolver struct {
	manifest links.Manifest
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(context.Context, string) (links.Manifest, error) {
	f.calls++
	return f.manifest, f.err
}

var exampleManifest = links.Manifest{Formats: []links.Stream{
	{Container: "mp4", HasVideo: true, HasAudio: true, QualityLabel: mo.Some("720p"), URL: "https://x/1"},
	{Container: "webm", HasVideo: true, HasAudio: true, QualityLabel: mo.Some("1080p"), URL: "https://x/2"},
}}

var _ = Describe("DownloadLinksHandler", func() {
	var (
		h         *handler.DownloadLinksHandler
		resolver  *fakeResolver
		collector *metrics.Collector
		log       *slog.Logger
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
		resolver = &fakeResolver{manifest: exampleManifest}
		collector = metrics.NewCollector(100, log)
		h = handler.NewDownloadLinksHandler(log, links.NewService(log, resolver, collector), collector)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/fetch-download-links", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	Describe("ServeHTTP", func() {
		It("should return the playable formats", func() {
			w := post(`{"videoId":"dQw4w9WgXcQ"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(w.Body.String()).To(Equal(`[{"url":"https://x/1","quality":"720p","format":"mp4"}]`))
		})

		It("should keep ampersands in media URLs literal", func() {
			resolver.manifest = links.Manifest{Formats: []links.Stream{
				{Container: "mp4", HasVideo: true, HasAudio: true, URL: "https://x/videoplayback?itag=18&sig=a<b>"},
			}}

			w := post(`{"videoId":"dQw4w9WgXcQ"}`)
			Expect(w.Body.String()).To(Equal(`[{"url":"https://x/videoplayback?itag=18&sig=a<b>","quality":"Unknown Quality","format":"mp4"}]`))
		})

		It("should reject a short id with 400 and skip the resolver", func() {
			w := post(`{"videoId":"short"}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Invalid video ID. Must be an 11-character YouTube video ID."}`))
			Expect(resolver.calls).To(BeZero())
		})

		It("should reject a malformed body with 400", func() {
			w := post(`not json`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resolver.calls).To(BeZero())
		})

		It("should reject an oversized body with 400", func() {
			w := post(`{"videoId":"` + strings.Repeat("a", 70<<10) + `"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resolver.calls).To(BeZero())
		})

		It("should return 404 when nothing is playable", func() {
			resolver.manifest = links.Manifest{}

			w := post(`{"videoId":"dQw4w9WgXcQ"}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"No suitable video formats found."}`))
		})

		It("should return 500 with the upstream message", func() {
			resolver.err = errors.New("Video unavailable")

			w := post(`{"videoId":"dQw4w9WgXcQ"}`)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Failed to fetch download links: Video unavailable"}`))
		})

		It("should only accept POST", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/fetch-download-links", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(w.Header().Get("Allow")).To(Equal(http.MethodPost))
			Expect(resolver.calls).To(BeZero())
		})

		It("should record the invocation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			collector.Start(ctx)

			post(`{"videoId":"dQw4w9WgXcQ"}`)
			post(`{"videoId":"short"}`)

			cancel()
			Eventually(collector.Done()).Should(BeClosed())

			snap := collector.Snapshot()
			Expect(snap.StatusCodes[http.StatusOK]).To(Equal(int64(1)))
			Expect(snap.StatusCodes[http.StatusBadRequest]).To(Equal(int64(1)))
			Expect(snap.Outcomes["invalid_request"]).To(Equal(int64(1)))
			Expect(snap.Resolver.Calls).To(Equal(int64(1)))
		})
	})

	Describe("HandleLambda", func() {
		invoke := func(event events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
			resp, err := h.HandleLambda(context.Background(), event)
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		It("should return the playable formats", func() {
			resp := invoke(events.APIGatewayProxyRequest{Body: `{"videoId":"dQw4w9WgXcQ"}`})

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Headers).To(HaveKeyWithValue("Content-Type", "application/json"))
			Expect(resp.Body).To(Equal(`[{"url":"https://x/1","quality":"720p","format":"mp4"}]`))
		})

		It("should decode base64 bodies", func() {
			encoded := base64.StdEncoding.EncodeToString([]byte(`{"videoId":"dQw4w9WgXcQ"}`))
			resp := invoke(events.APIGatewayProxyRequest{Body: encoded, IsBase64Encoded: true})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("should reject broken base64 with 400", func() {
			resp := invoke(events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("should reject a missing id with 400", func() {
			resp := invoke(events.APIGatewayProxyRequest{Body: `{}`})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error":"Invalid video ID. Must be an 11-character YouTube video ID."}`))
		})

		It("should map resolver failures to 500", func() {
			resolver.err = errors.New("Video unavailable")
			resp := invoke(events.APIGatewayProxyRequest{Body: `{"videoId":"dQw4w9WgXcQ"}`})
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(resp.Body).To(Equal(`{"error":"Failed to fetch download links: Video unavailable"}`))
		})
	})
})
