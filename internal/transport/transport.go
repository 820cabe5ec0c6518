// Package transport builds the HTTP client used to talk to the video host.
//
// The default client is a pooled net/http client. With Fingerprint set, TLS
// connections are made through uTLS with a Chrome ClientHello so the upstream
// sees a browser handshake; HTTP/2 is tried first and HTTP/1.1 is used when
// the h2 exchange fails.
package transport

import (
	"net/http"
	"time"
)

type Options struct {
	// Timeout bounds a whole request. Zero means no client-side timeout.
	Timeout     time.Duration
	Fingerprint bool
}

func NewClient(opts Options) *http.Client {
	var rt http.RoundTripper = newPooledTransport()
	if opts.Fingerprint {
		rt = newFingerprintTransport(opts.Timeout)
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: rt,
	}
}

func newPooledTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 20
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}
