package chhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Params carries everything that becomes a URL query parameter on a
// request: authentication, target database, compression negotiation, and
// server-side settings (both client-wide and per-query).
type Params struct {
	BaseURL    string
	Database   string
	User       string
	Password   string
	Query      string // empty when SQL travels in the body instead
	Compress   bool   // response body is LZ4-framed
	Decompress bool   // request body is LZ4-framed (insert only)
	Settings   map[string]string
	Roles      []string
}

// BuildURL assembles the request URL: base URL plus query, database, user,
// password, compress/decompress flags, roles and settings. The query
// string is encoded with url.Values.Encode, so parameters appear sorted
// by key.
func BuildURL(p Params) (string, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("chhttp: invalid base URL: %w", err)
	}

	q := u.Query()
	if p.Query != "" {
		q.Set("query", p.Query)
	}
	if p.Database != "" {
		q.Set("database", p.Database)
	}
	if p.User != "" {
		q.Set("user", p.User)
	}
	if p.Password != "" {
		q.Set("password", p.Password)
	}
	if p.Compress {
		q.Set("compress", "1")
	}
	if p.Decompress {
		q.Set("decompress", "1")
	}
	for _, role := range p.Roles {
		q.Add("role", role)
	}
	for k, v := range p.Settings {
		q.Set(k, v)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Method chooses GET for small pure SELECTs and POST otherwise: POST is
// mandatory whenever the caller has a body to stream (INSERT, WATCH) and
// preferred once the fully-rendered SQL would blow the URL length budget.
func Method(sql string, hasBody bool) string {
	if hasBody {
		return http.MethodPost
	}
	if len(sql) > MaxURLQueryBytes {
		return http.MethodPost
	}
	return http.MethodGet
}

// HTTPError represents a non-2xx or mid-stream server-reported failure.
// The ch package wraps this into Error{Kind: BadResponse}.
type HTTPError struct {
	Status int
	Text   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("chhttp: server responded %d: %s", e.Status, e.Text)
}

// Do issues the request and returns the raw response without consuming or
// classifying the body; callers (Cursor, Insert, Watch) decide how to
// stream and validate it since only they know whether a trailing text
// payload is expected.
func Do(ctx context.Context, client *http.Client, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("chhttp: build request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckStatus reads and returns a non-2xx body as an *HTTPError. It leaves
// 2xx responses untouched (their body may still carry a trailing error,
// which Cursor/Insert detect separately).
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
	return &HTTPError{Status: resp.StatusCode, Text: string(body)}
}
