package ch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/vkcom/kittenhouse-client/chhttp"
	"github.com/vkcom/kittenhouse-client/lz4block"
	"github.com/vkcom/kittenhouse-client/rowbinary"
)

// Summary is the progress/resource-usage report ClickHouse attaches to a
// response in the X-ClickHouse-Summary header (queries) or as trailing
// NDJSON progress lines (watches). Fields mirror what the server sends;
// zero values mean "not reported".
type Summary struct {
	ReadRows        uint64 `json:"read_rows,string"`
	ReadBytes       uint64 `json:"read_bytes,string"`
	WrittenRows     uint64 `json:"written_rows,string"`
	WrittenBytes    uint64 `json:"written_bytes,string"`
	TotalRowsToRead uint64 `json:"total_rows_to_read,string"`
	ResultRows      uint64 `json:"result_rows,string"`
	ResultBytes     uint64 `json:"result_bytes,string"`
}

// Cursor streams RowBinary rows out of a single query's HTTP response
// body. It is not safe for concurrent use: exactly one goroutine may call
// Next at a time, matching the single-writer/single-reader shape every
// component in this package follows.
type Cursor struct {
	resp    *http.Response
	body    io.ReadCloser
	reader  *rowbinary.Reader
	summary Summary
	hasSum  bool
	err     error
	closed  bool
}

// Query runs sql (already fully bound, see Bind) as a RowBinary SELECT
// and returns a Cursor over its results. The HTTP request is sent
// immediately; rows are decoded lazily as Next is called.
func (c *Client) Query(ctx context.Context, sql string) (*Cursor, error) {
	format := " FORMAT RowBinaryWithNamesAndTypes"
	fullSQL := sql + format

	p, err := c.params("")
	if err != nil {
		return nil, err
	}
	p.Compress = c.compression.queryParamValue()

	method := chhttp.Method(fullSQL, false)
	var body io.Reader
	if method == http.MethodPost {
		p.Query = ""
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

	if c.logger != nil {
		c.logger.request(method, rawURL, resp.StatusCode, resp.ContentLength, int64(len(fullSQL)), nil)
	}

	cur := &Cursor{resp: resp, body: resp.Body}

	dec, err := decompressReader(resp.Body, c.compression)
	if err != nil {
		resp.Body.Close()
		return nil, newError(Decompression, err)
	}
	cur.reader = rowbinary.NewReader(dec)

	if err := cur.skipNamesAndTypes(); err != nil {
		resp.Body.Close()
		return nil, err
	}

	if raw := resp.Header.Get("X-ClickHouse-Summary"); raw != "" {
		var s Summary
		if json.Unmarshal([]byte(raw), &s) == nil {
			cur.summary = s
			cur.hasSum = true
		}
	}

	return cur, nil
}

// skipNamesAndTypes consumes the header block RowBinaryWithNamesAndTypes
// prepends: a column count, that many names, then that many type strings.
// Callers of Row.DecodeRowBinary already know their own column layout, so
// this client discards rather than validates the header against it.
func (cur *Cursor) skipNamesAndTypes() error {
	n, err := cur.reader.ReadArrayLen()
	if err != nil {
		return classifyRowbinaryErr(err)
	}
	for i := 0; i < n; i++ {
		if _, err := cur.reader.ReadString(); err != nil {
			return classifyRowbinaryErr(err)
		}
	}
	n2, err := cur.reader.ReadArrayLen()
	if err != nil {
		return classifyRowbinaryErr(err)
	}
	for i := 0; i < n2; i++ {
		if _, err := cur.reader.ReadString(); err != nil {
			return classifyRowbinaryErr(err)
		}
	}
	return nil
}

// Next decodes the next row into row and returns true, or returns false
// at a clean end of stream. A false return with a non-nil Err means the
// stream ended abnormally (network error, or a plain-text error tail the
// server appended after it had already committed to a 200 response).
func (cur *Cursor) Next(row Row) (bool, error) {
	if cur.err != nil {
		return false, cur.err
	}

	if _, err := cur.reader.Peek(); err != nil {
		if err == io.EOF {
			return false, nil
		}
		cur.err = classifyRowbinaryErr(err)
		return false, cur.err
	}

	if text, ok := cur.reader.PeekErrorTail(); ok {
		cur.err = badResponse(http.StatusOK, text)
		return false, cur.err
	}

	if err := row.DecodeRowBinary(cur.reader); err != nil {
		cur.err = classifyRowbinaryErr(err)
		if cur.err.(*Error).Kind == Network {
			cur.err = newError(Decode, err)
		}
		return false, cur.err
	}
	return true, nil
}

// Summary returns the query's resource-usage summary, if the server sent
// one. It is read from the X-ClickHouse-Summary response header when Query
// returns and does not change as rows are read.
func (cur *Cursor) Summary() (Summary, bool) {
	return cur.summary, cur.hasSum
}

// Close releases the underlying HTTP response body. It is safe to call
// after Next has already returned false, and safe to call twice.
func (cur *Cursor) Close() error {
	if cur.closed {
		return nil
	}
	cur.closed = true
	return cur.body.Close()
}

func classifyRowbinaryErr(err error) error {
	switch {
	case err == rowbinary.ErrNotEnoughData:
		return newError(NotEnoughData, err)
	case err == rowbinary.ErrTooLarge:
		return newError(TooLarge, err)
	case errors.Is(err, lz4block.ErrChecksumMismatch), errors.Is(err, lz4block.ErrMalformedBlock):
		return newError(Decompression, err)
	default:
		return newError(Network, err)
	}
}
