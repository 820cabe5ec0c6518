package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const defaultDialTimeout = 30 * time.Second

var errNotRewindable = errors.New("request body cannot be replayed")

type fingerprintTransport struct {
	h2    *http2.Transport
	h1    *http.Transport
	plain http.RoundTripper
}

func newFingerprintTransport(timeout time.Duration) *fingerprintTransport {
	dialTimeout := defaultDialTimeout
	if timeout > 0 && timeout < dialTimeout {
		dialTimeout = timeout
	}
	dialer := &net.Dialer{Timeout: dialTimeout}

	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, dialer, network, addr, false)
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, dialer, network, addr, true)
			},
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     30 * time.Second,
		},
		plain: newPooledTransport(),
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	if req.Context().Err() != nil {
		return nil, err
	}

	retry, rerr := rewind(req)
	if rerr != nil {
		return nil, err
	}

	return t.h1.RoundTrip(retry)
}

// rewind returns a copy of req whose body can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errNotRewindable
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

// dialTLS opens a TLS connection with Chrome's ClientHello. When h1Only is
// set the ALPN extension only offers http/1.1.
func dialTLS(ctx context.Context, dialer *net.Dialer, network, addr string, h1Only bool) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	cfg := &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	var uconn *utls.UConn
	if h1Only {
		spec, err := http1Spec()
		if err != nil {
			conn.Close()
			return nil, err
		}
		uconn = utls.UClient(conn, cfg, utls.HelloCustom)
		if err := uconn.ApplyPreset(&spec); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply tls preset: %w", err)
		}
	} else {
		uconn = utls.UClient(conn, cfg, utls.HelloChrome_120)
	}

	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return uconn, nil
}

func http1Spec() (utls.ClientHelloSpec, error) {
	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
	if err != nil {
		return utls.ClientHelloSpec{}, fmt.Errorf("build tls spec: %w", err)
	}

	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}

	return spec, nil
}
