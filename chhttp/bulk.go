package chhttp

import (
	"fmt"

	"github.com/valyala/fasthttp"
)

// BulkClient issues single buffered POSTs through fasthttp instead of
// net/http, for callers that already hold the whole request body in
// memory (such as cmd/chcat's benchmarking mode) and want
// to avoid net/http's per-request allocations under high throughput.
type BulkClient struct {
	host *fasthttp.HostClient
}

// NewBulkClient dials addr (host:port, no scheme) for repeated bulk
// POSTs. isTLS selects https vs http.
func NewBulkClient(addr string, isTLS bool) *BulkClient {
	return &BulkClient{
		host: &fasthttp.HostClient{
			Addr:                addr,
			IsTLS:               isTLS,
			MaxConns:            64,
			MaxIdleConnDuration: httpIdleTimeout,
		},
	}
}

// Post sends body to rawURL and returns the response body. A non-2xx
// status is returned as *HTTPError, matching net/http-path CheckStatus.
func (b *BulkClient) Post(rawURL string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/octet-stream")
	req.SetBody(body)

	if err := b.host.Do(req, resp); err != nil {
		return nil, fmt.Errorf("chhttp: bulk post: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, &HTTPError{Status: status, Text: string(resp.Body())}
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}
