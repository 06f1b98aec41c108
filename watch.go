package ch

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vkcom/kittenhouse-client/chhttp"
)

// JSONRow is implemented by types that decode from a WATCH result row.
// Watch uses JSONEachRowWithProgress rather than RowBinary because that
// is the only format ClickHouse's LIVE VIEW machinery streams progress
// frames in.
type JSONRow interface {
	DecodeJSON(data []byte) error
}

// Watch builds a `WATCH` query against a LIVE VIEW, creating the view on
// first use if it doesn't already exist.
type Watch struct {
	client     *Client
	sql        string
	limit      int
	onlyEvents bool
}

// NewWatch prepares to watch the result of sql, which must be a query
// ClickHouse accepts inside `CREATE LIVE VIEW ... AS`.
func (c *Client) NewWatch(sql string) *Watch {
	return &Watch{client: c, sql: sql, limit: -1}
}

// Limit stops the watch after n version changes.
func (w *Watch) Limit(n int) *Watch {
	w.limit = n
	return w
}

// OnlyEvents switches to `WATCH ... EVENTS`, which reports only the new
// version number on each change instead of the full row set.
func (w *Watch) OnlyEvents() *Watch {
	w.onlyEvents = true
	return w
}

// WatchEvent is one line of a WATCH response: the row's own columns plus
// the LIVE VIEW's monotonically increasing _version. For every data line,
// OnlyEvents or not, Row holds the whole JSON object of that line
// (_version included); it is nil only on progress events.
type WatchEvent struct {
	Version  uint64
	Progress *Summary
	Row      json.RawMessage
}

// DecodeRow unmarshals the event's row payload into dst. It returns an
// error if called on a progress-only event.
func (ev WatchEvent) DecodeRow(dst JSONRow) error {
	if ev.Row == nil {
		return newError(InvalidParams, fmt.Errorf("watch: event has no row payload"))
	}
	return dst.DecodeJSON(ev.Row)
}

// WatchCursor streams WatchEvents out of one WATCH request. It is not
// safe for concurrent use.
type WatchCursor struct {
	body io.ReadCloser
	dec  *json.Decoder
}

// liveViewName derives a stable, collision-resistant view name from the
// watched SQL so repeated calls with the same query reuse the same view
// instead of creating a new one every time.
func liveViewName(sql string) string {
	sum := sha1.Sum([]byte(sql))
	return fmt.Sprintf("lv_%x", sum)
}

// Start creates the backing LIVE VIEW if needed and opens the WATCH
// stream.
func (w *Watch) Start(ctx context.Context) (*WatchCursor, error) {
	view := liveViewName(w.sql)

	createSQL := "CREATE LIVE VIEW IF NOT EXISTS " + view + " WITH TIMEOUT AS " + w.sql
	if err := w.client.Execute(ctx, createSQL); err != nil {
		return nil, err
	}

	watchSQL := "WATCH " + view
	if w.onlyEvents {
		watchSQL += " EVENTS"
	}
	if w.limit >= 0 {
		watchSQL += fmt.Sprintf(" LIMIT %d", w.limit)
	}
	watchSQL += " FORMAT JSONEachRowWithProgress"

	p, err := w.client.params("")
	if err != nil {
		return nil, err
	}
	method := chhttp.Method(watchSQL, true)
	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(watchSQL)
	} else {
		p.Query = watchSQL
	}

	rawURL, err := chhttp.BuildURL(p)
	if err != nil {
		return nil, newError(InvalidParams, err)
	}

	resp, err := chhttp.Do(ctx, w.client.httpClient, method, rawURL, body)
	if err != nil {
		w.client.reportNetworkFailure(p.BaseURL)
		return nil, newError(Network, err)
	}
	if err := chhttp.CheckStatus(resp); err != nil {
		return nil, badResponse(resp.StatusCode, err.(*chhttp.HTTPError).Text)
	}

	return &WatchCursor{body: resp.Body, dec: json.NewDecoder(resp.Body)}, nil
}

// wireEvent mirrors the two shapes JSONEachRowWithProgress interleaves:
// a data row (with "_version" alongside the watched columns) or a
// progress frame (a lone "progress" object).
type wireEvent struct {
	Version  *uint64         `json:"_version"`
	Progress *progressFields `json:"progress"`
}

type progressFields struct {
	ReadRows        uint64 `json:"read_rows,string"`
	ReadBytes       uint64 `json:"read_bytes,string"`
	TotalRowsToRead uint64 `json:"total_rows_to_read,string"`
}

// Next decodes the next event. It returns io.EOF when the server ends
// the watch (LIVE VIEW timeout, or LIMIT reached).
func (wc *WatchCursor) Next() (WatchEvent, error) {
	var raw json.RawMessage
	if err := wc.dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return WatchEvent{}, io.EOF
		}
		return WatchEvent{}, newError(Decode, err)
	}

	var probe wireEvent
	if err := json.Unmarshal(raw, &probe); err != nil {
		return WatchEvent{}, newError(Decode, err)
	}

	if probe.Progress != nil {
		return WatchEvent{Progress: &Summary{
			ReadRows:        probe.Progress.ReadRows,
			ReadBytes:       probe.Progress.ReadBytes,
			TotalRowsToRead: probe.Progress.TotalRowsToRead,
		}}, nil
	}

	ev := WatchEvent{Row: raw}
	if probe.Version != nil {
		ev.Version = *probe.Version
	}
	return ev, nil
}

// Close releases the underlying HTTP response body.
func (wc *WatchCursor) Close() error {
	return wc.body.Close()
}
