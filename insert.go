package ch

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/vkcom/kittenhouse-client/chhttp"
	"github.com/vkcom/kittenhouse-client/rowbinary"
)

// softFlushThreshold is the buffered-write size at which Insert flushes to
// the underlying HTTP body writer instead of waiting for End.
const softFlushThreshold = 128 << 10

// Insert is one open INSERT session against a single table. It owns the
// request body writer for the lifetime of the session: exactly one
// goroutine may call WriteRow/WriteRaw/End, matching the single-writer
// invariant the reference daemon's flush path also assumes.
type Insert struct {
	mu      sync.Mutex
	pw      *io.PipeWriter
	enc     *rowbinary.Writer
	wrapped io.WriteCloser
	done    chan error
	closed  bool
}

// Insert opens a streaming INSERT into table, appending `?fields` bound
// to columns so ClickHouse validates the column list up front.
func (c *Client) Insert(ctx context.Context, table string, columns []string) (*Insert, error) {
	sql, err := Bind("INSERT INTO "+ExpandFields(table+" (?fields)", columns)+" FORMAT RowBinary")
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()

	wrapped, err := compressWriter(pw, c.compression)
	if err != nil {
		pw.Close()
		return nil, newError(Decompression, err)
	}

	ins := &Insert{
		pw:      pw,
		enc:     rowbinary.NewWriter(),
		wrapped: wrapped,
		done:    make(chan error, 1),
	}

	p, err := c.params(sql)
	if err != nil {
		pw.Close()
		return nil, err
	}
	p.Decompress = c.compression.queryParamValue()
	rawURL, err := chhttp.BuildURL(p)
	if err != nil {
		pw.Close()
		return nil, newError(InvalidParams, err)
	}

	go func() {
		resp, err := chhttp.Do(ctx, c.httpClient, http.MethodPost, rawURL, pr)
		if err != nil {
			c.reportNetworkFailure(p.BaseURL)
			pr.CloseWithError(err)
			ins.done <- newError(Network, err)
			return
		}
		defer resp.Body.Close()
		if err := chhttp.CheckStatus(resp); err != nil {
			ins.done <- badResponse(resp.StatusCode, err.(*chhttp.HTTPError).Text)
			return
		}
		ins.done <- nil
	}()

	return ins, nil
}

// WriteRow encodes row and appends it to the session's buffer, flushing
// to the HTTP body once softFlushThreshold is exceeded. It returns the
// number of raw (pre-compression) bytes row encoded to, regardless of
// whether a flush happened to be triggered.
func (ins *Insert) WriteRow(row Row) (int, error) {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	if ins.closed {
		return 0, newError(InvalidParams, errClosedInsert)
	}

	before := ins.enc.Len()
	if err := row.EncodeRowBinary(ins.enc); err != nil {
		return 0, newError(Custom, err)
	}
	written := ins.enc.Len() - before

	if ins.enc.Len() >= softFlushThreshold {
		if err := ins.flushLocked(); err != nil {
			return written, err
		}
	}
	return written, nil
}

// WriteRaw appends already-encoded RowBinary bytes directly to the
// session's buffer, for callers proxying a client-supplied body through
// without decoding it into Row values first.
func (ins *Insert) WriteRaw(p []byte) (int, error) {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	if ins.closed {
		return 0, newError(InvalidParams, errClosedInsert)
	}

	ins.enc.WriteFixed(p)
	if ins.enc.Len() >= softFlushThreshold {
		if err := ins.flushLocked(); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (ins *Insert) flushLocked() error {
	if ins.enc.Len() == 0 {
		return nil
	}
	_, err := ins.wrapped.Write(ins.enc.Bytes())
	ins.enc.Reset()
	if err != nil {
		return newError(Network, err)
	}
	return nil
}

// End flushes any buffered rows, closes the request body, and waits for
// the server's response. Once the session is closed (by End or Abort),
// further End calls return nil without re-sending anything; the first
// call's error is not returned again.
func (ins *Insert) End() error {
	ins.mu.Lock()
	if ins.closed {
		ins.mu.Unlock()
		return nil
	}
	flushErr := ins.flushLocked()
	closeErr := ins.wrapped.Close()
	pwErr := ins.pw.Close()
	ins.closed = true
	ins.mu.Unlock()

	result := <-ins.done
	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return newError(Network, closeErr)
	}
	if pwErr != nil {
		return newError(Network, pwErr)
	}
	return result
}

// Abort discards the session: the pipe is closed with an error so the
// background goroutine's request fails fast instead of hanging on a
// half-written body, and Abort returns once that goroutine has finished.
// Buffered rows are not sent.
func (ins *Insert) Abort() {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	if ins.closed {
		return
	}
	ins.closed = true
	ins.pw.CloseWithError(errAbortedInsert)
	<-ins.done
}

var errClosedInsert = insertError("insert: session already ended")
var errAbortedInsert = insertError("insert: session aborted")

type insertError string

func (e insertError) Error() string { return string(e) }
