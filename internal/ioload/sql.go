package ioload

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
)

// dialect keeps differences of SQL flavours used by the stores.
type dialect struct {
	// quote sanitizes an identifier, possibly qualified.
	quote func(parts ...string) string

	// placeholder returns the i-th (0-based) bind parameter.
	placeholder func(i int) string

	// maxParams is the maximum number of bind parameters per statement.
	maxParams int

	// value converts a cell to a driver value.
	value func(c *frame.Column, r int) any
}

func quoteDouble(parts ...string) string {
	res := make([]string, len(parts))
	for i, p := range parts {
		res[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(res, ".")
}

// chunkRows is the number of rows per statement.
func (d dialect) chunkRows(batch, cols int) int {
	res := batch
	if limit := d.maxParams / max(cols, 1); res > limit {
		res = limit
	}
	return max(res, 1)
}

// missingColumns returns measure columns of a file that the table does
// not have yet, in file order.
func missingColumns(names, key, existing []string) []string {
	var res []string
	for _, name := range names {
		if slices.Contains(key, name) || slices.Contains(existing, name) {
			continue
		}
		res = append(res, name)
	}
	return res
}

// upsertSQL builds a multi-row insert that updates every non-key column
// on key conflict. Without non-key columns conflicts are ignored.
func (d dialect) upsertSQL(table string, cols, key []string, rows int) string {
	var b strings.Builder
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.quote(c)
	}

	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(quoted, ", "))
	param := 0
	for r := range rows {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for i := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.placeholder(param))
			param++
		}
		b.WriteByte(')')
	}

	quotedKey := make([]string, len(key))
	for i, k := range key {
		quotedKey[i] = d.quote(k)
	}
	fmt.Fprintf(&b, " ON CONFLICT (%s) ", strings.Join(quotedKey, ", "))

	var sets []string
	for i, c := range cols {
		if slices.Contains(key, c) {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", quoted[i], quoted[i]))
	}
	if len(sets) == 0 {
		b.WriteString("DO NOTHING")
		return b.String()
	}
	b.WriteString("DO UPDATE SET ")
	b.WriteString(strings.Join(sets, ", "))
	return b.String()
}

// args flattens rows [from, to) of a frame in column order.
func (d dialect) args(f *frame.Frame, from, to int) []any {
	cols := f.Columns()
	res := make([]any, 0, (to-from)*len(cols))
	for r := from; r < to; r++ {
		for _, c := range cols {
			res = append(res, d.value(c, r))
		}
	}
	return res
}

// floatValue maps NaN to NULL.
func floatValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// pgValue keeps native types, pgx encodes them.
func pgValue(c *frame.Column, r int) any {
	switch c.Kind {
	case frame.String:
		return c.Strings[r]
	case frame.Timestamp, frame.Date:
		return c.Times[r].UTC()
	default:
		return floatValue(c.Floats[r])
	}
}

// sqliteValue stores time as sortable UTC text.
func sqliteValue(c *frame.Column, r int) any {
	switch c.Kind {
	case frame.String:
		return c.Strings[r]
	case frame.Timestamp:
		return c.Times[r].UTC().Format(time.RFC3339)
	case frame.Date:
		return c.Times[r].UTC().Format(time.DateOnly)
	default:
		return floatValue(c.Floats[r])
	}
}
