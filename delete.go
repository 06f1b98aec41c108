package ch

import (
	"context"
	"strings"
)

// Delete builds and runs an `ALTER TABLE ... DELETE WHERE pk IN (...)`
// mutation. ClickHouse mutations run asynchronously; a successful Delete
// call only means the mutation was accepted, not that it has finished.
type Delete struct {
	client  *Client
	table   string
	pkName  string
}

// NewDelete prepares a delete of rows matching pkName against table.
func (c *Client) NewDelete(table, pkName string) *Delete {
	return &Delete{client: c, table: table, pkName: pkName}
}

// Keys runs the mutation for the given primary key values.
func (d *Delete) Keys(ctx context.Context, keys ...Arg) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	sql, err := Bind(
		"ALTER TABLE "+identArg{d.table}.sqlText()+" DELETE WHERE "+identArg{d.pkName}.sqlText()+" IN ("+placeholders+")",
		keys...,
	)
	if err != nil {
		return err
	}
	return d.client.Execute(ctx, sql)
}

func (a identArg) sqlText() string {
	var b strings.Builder
	a.renderSQL(&b)
	return b.String()
}
