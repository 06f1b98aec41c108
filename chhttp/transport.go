package chhttp

import (
	"net"
	"net/http"
	"time"
)

const (
	tcpKeepAlive     = 60 * time.Second
	httpIdleTimeout  = 2 * time.Second
	dialTimeout      = 10 * time.Second
	maxIdlePerHost   = 8
	maxURLQueryBytes = 8 << 10
)

// NewTransport builds the *http.Transport used for all query, insert and
// watch requests. TCP keep-alive is kept generous (60s) but the HTTP-level
// idle timeout is capped much lower (2s): ClickHouse's HTTP server has been
// observed to reset connections that sit idle in its own keep-alive pool
// for longer than that, so a long-lived *http.Transport pool needs to give
// connections up before the server does.
func NewTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: tcpKeepAlive,
	}

	return &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     httpIdleTimeout,
		ForceAttemptHTTP2:   false,
	}
}

// NewClient returns an *http.Client wired to NewTransport. Callers needing
// a request deadline should use context.WithDeadline/WithTimeout on the
// request context rather than http.Client.Timeout, since Timeout would cut
// off a still-streaming Insert or Watch body.
func NewClient() *http.Client {
	return &http.Client{Transport: NewTransport()}
}

// MaxURLQueryBytes is the documented budget beyond which Method should
// switch a SELECT from GET to POST.
const MaxURLQueryBytes = maxURLQueryBytes
