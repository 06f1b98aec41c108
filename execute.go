package ch

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/vkcom/kittenhouse-client/chhttp"
)

// Execute runs sql for its side effects (DDL, ALTER, mutations) and
// discards the response body.
func (c *Client) Execute(ctx context.Context, sql string) error {
	p, err := c.params("")
	if err != nil {
		return err
	}
	method := chhttp.Method(sql, false)

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(sql)
	} else {
		p.Query = sql
	}

	rawURL, err := chhttp.BuildURL(p)
	if err != nil {
		return newError(InvalidParams, err)
	}

	resp, err := chhttp.Do(ctx, c.httpClient, method, rawURL, body)
	if err != nil {
		c.reportNetworkFailure(p.BaseURL)
		return newError(Network, err)
	}
	defer resp.Body.Close()

	if err := chhttp.CheckStatus(resp); err != nil {
		return badResponse(resp.StatusCode, err.(*chhttp.HTTPError).Text)
	}
	return nil
}
