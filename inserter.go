package ch

import (
	"context"
	"math"
	"sync"
	"time"
)

// Stats reports pending or completed insert volume: rows written, raw
// (pre-compression) bytes, and how many nonempty INSERT statements those
// rows were split across.
type Stats struct {
	Bytes        uint64
	Rows         uint64
	Transactions uint64
}

// Inserter batches writes across multiple INSERT statements, ending the
// current one once a configured row count, byte count, or time period is
// reached. It does not spawn a background goroutine: Commit must be
// called periodically (TimeLeft tells the caller how soon) for the time
// threshold to take effect.
type Inserter struct {
	mu        sync.Mutex
	client    *Client
	table     string
	columns   []string
	maxRows   uint64
	maxBytes  uint64
	ticks     *ticks
	insert    *Insert
	pending   Stats
	inTxn     bool
}

// NewInserter returns an Inserter with no limits configured: it will
// never auto-commit until the caller sets MaxRows, MaxBytes, or Period,
// or calls ForceCommit itself.
func (c *Client) NewInserter(table string, columns []string) *Inserter {
	return &Inserter{
		client:   c,
		table:    table,
		columns:  columns,
		maxRows:  math.MaxUint64,
		maxBytes: math.MaxUint64,
		ticks:    newTicks(),
	}
}

// WithMaxRows sets the row-count threshold. Unlimited by default.
func (ins *Inserter) WithMaxRows(n uint64) *Inserter {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	ins.maxRows = n
	return ins
}

// WithMaxBytes sets the raw-byte threshold. Unlimited by default.
func (ins *Inserter) WithMaxBytes(n uint64) *Inserter {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	ins.maxBytes = n
	return ins
}

// WithPeriod sets the time between commits. Extra ticks are skipped if
// the previous INSERT is still in flight when the next one comes due.
func (ins *Inserter) WithPeriod(period time.Duration) *Inserter {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	ins.ticks.setPeriod(period)
	ins.ticks.reschedule()
	return ins
}

// WithPeriodBias jitters Period by up to +/-bias*Period (bias clamped to
// [0,1]), so many Inserters started together don't all flush in lockstep.
func (ins *Inserter) WithPeriodBias(bias float64) *Inserter {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	ins.ticks.setPeriodBias(bias)
	ins.ticks.reschedule()
	return ins
}

// TimeLeft returns how long until the next scheduled commit, and false
// if no period is configured.
func (ins *Inserter) TimeLeft() (time.Duration, bool) {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	return ins.ticks.timeLeft()
}

// Pending returns stats for data written but not yet committed.
func (ins *Inserter) Pending() Stats {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	return ins.pending
}

// Write serializes row into the currently open INSERT, opening one first
// if none is in flight.
func (ins *Inserter) Write(ctx context.Context, row Row) error {
	ins.mu.Lock()
	defer ins.mu.Unlock()

	if ins.insert == nil {
		in, err := ins.client.Insert(ctx, ins.table, ins.columns)
		if err != nil {
			return err
		}
		ins.insert = in
	}

	written, err := ins.insert.WriteRow(row)
	if err != nil {
		ins.pending = Stats{}
		return err
	}

	ins.pending.Bytes += uint64(written)
	ins.pending.Rows++
	if !ins.inTxn {
		ins.pending.Transactions++
		ins.inTxn = true
	}
	return nil
}

// Commit ends the current INSERT if a configured threshold has been
// reached, returning the Stats that were flushed (zero Stats if nothing
// was due).
func (ins *Inserter) Commit(ctx context.Context) (Stats, error) {
	ins.mu.Lock()
	reached := ins.pending.Rows >= ins.maxRows ||
		ins.pending.Bytes >= ins.maxBytes ||
		ins.ticks.reached()
	ins.mu.Unlock()

	if !reached {
		return Stats{}, nil
	}
	return ins.ForceCommit(ctx)
}

// ForceCommit ends the current INSERT unconditionally.
func (ins *Inserter) ForceCommit(ctx context.Context) (Stats, error) {
	ins.mu.Lock()
	ins.inTxn = false
	flushed := ins.pending
	ins.pending = Stats{}
	in := ins.insert
	ins.insert = nil
	ins.mu.Unlock()

	ins.ticks.reschedule()

	if in == nil {
		return Stats{}, nil
	}
	if err := in.End(); err != nil {
		return Stats{}, err
	}
	return flushed, nil
}

// End ends the Inserter's current INSERT unconditionally and returns the
// final Stats. If it isn't called, dropping the Inserter leaves the
// current INSERT open on the server until it times out; callers should
// always call End or ForceCommit before discarding an Inserter.
func (ins *Inserter) End(ctx context.Context) (Stats, error) {
	return ins.ForceCommit(ctx)
}
