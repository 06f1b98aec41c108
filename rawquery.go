package ch

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/vkcom/kittenhouse-client/chhttp"
)

// QueryRaw runs sql with FORMAT format appended and returns the response
// body uninterpreted. It never asks the server to compress the response,
// whatever the Client's Compression, so the body is plain bytes in the
// requested format. It exists for callers like cmd/chcat
// that want a format RowBinary doesn't cover (TSV, CSV, Pretty, ...) and
// so cannot use Query/Cursor's fixed-format decoding.
func (c *Client) QueryRaw(ctx context.Context, sql, format string) (io.ReadCloser, error) {
	fullSQL := sql + " FORMAT " + format

	p, err := c.params("")
	if err != nil {
		return nil, err
	}
	method := chhttp.Method(fullSQL, false)
	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(fullSQL)
	} else {
		p.Query = fullSQL
	}

	rawURL, err := chhttp.BuildURL(p)
	if err != nil {
		return nil, newError(InvalidParams, err)
	}

	resp, err := chhttp.Do(ctx, c.httpClient, method, rawURL, body)
	if err != nil {
		c.reportNetworkFailure(p.BaseURL)
		return nil, newError(Network, err)
	}
	if err := chhttp.CheckStatus(resp); err != nil {
		return nil, badResponse(resp.StatusCode, err.(*chhttp.HTTPError).Text)
	}
	return resp.Body, nil
}
