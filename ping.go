package ch

import (
	"context"

	"github.com/vkcom/kittenhouse-client/rowbinary"
)

// Ping checks that the server is reachable and responding to queries by
// running `SELECT 1` and discarding the result.
func (c *Client) Ping(ctx context.Context) error {
	cur, err := c.Query(ctx, "SELECT 1")
	if err != nil {
		return err
	}
	defer cur.Close()

	var row pingRow
	_, err = cur.Next(&row)
	return err
}

type pingRow struct {
	one uint8
}

func (pingRow) ColumnNames() []string { return []string{"1"} }

func (r *pingRow) DecodeRowBinary(reader *rowbinary.Reader) error {
	v, err := reader.ReadU8()
	if err != nil {
		return err
	}
	r.one = v
	return nil
}

func (pingRow) EncodeRowBinary(writer *rowbinary.Writer) error {
	return nil
}
