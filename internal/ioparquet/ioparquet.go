// Package ioparquet writes and reads frames as Parquet partition files.
// Files are replaced atomically: readers see either the previous file
// or the complete new one.
package ioparquet

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/google/renameio/v2"
	"github.com/parquet-go/parquet-go"
)

// ColumnsKey is the key-value metadata entry holding the original
// column order. Parquet groups order columns by name.
const ColumnsKey = "agrimart.columns"

const msPerDay = 24 * 60 * 60 * 1000

// Write stores a frame at path, creating parent directories. The file
// is written to a pending file in the same directory and renamed over
// path on success.
func Write(path string, f *frame.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return WriteError(path, err)
	}

	schema := schemaOf(f)
	rows, err := rowsOf(f, schema)
	if err != nil {
		return WriteError(path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return WriteError(path, err)
	}
	defer pending.Cleanup()

	w := parquet.NewWriter(pending, schema,
		parquet.KeyValueMetadata(ColumnsKey, strings.Join(f.Names(), ",")),
	)
	if _, err = w.WriteRows(rows); err != nil {
		return WriteError(path, err)
	}
	if err = w.Close(); err != nil {
		return WriteError(path, err)
	}
	if err = pending.CloseAtomicallyReplace(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func schemaOf(f *frame.Frame) *parquet.Schema {
	group := parquet.Group{}
	for _, c := range f.Columns() {
		switch c.Kind {
		case frame.String:
			group[c.Name] = parquet.String()
		case frame.Timestamp:
			group[c.Name] = parquet.Timestamp(parquet.Millisecond)
		case frame.Date:
			group[c.Name] = parquet.Date()
		default:
			group[c.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		}
	}
	return parquet.NewSchema("agrimart", group)
}

func rowsOf(f *frame.Frame, schema *parquet.Schema) ([]parquet.Row, error) {
	cols := f.Columns()
	idx := make([]int, len(cols))
	for i, c := range cols {
		leaf, ok := schema.Lookup(c.Name)
		if !ok {
			return nil, errors.New("column " + c.Name + " is not in schema")
		}
		idx[i] = leaf.ColumnIndex
	}

	rows := make([]parquet.Row, f.Len())
	for r := range rows {
		row := make(parquet.Row, len(cols))
		for i, c := range cols {
			v := value(c, r)
			// optional measures are defined at level 1
			def := 0
			if c.Kind == frame.Float && !v.IsNull() {
				def = 1
			}
			row[idx[i]] = v.Level(0, def, idx[i])
		}
		rows[r] = row
	}
	return rows, nil
}

func value(c *frame.Column, r int) parquet.Value {
	switch c.Kind {
	case frame.String:
		return parquet.ByteArrayValue([]byte(c.Strings[r]))
	case frame.Timestamp:
		return parquet.Int64Value(c.Times[r].UnixMilli())
	case frame.Date:
		return parquet.Int32Value(int32(c.Times[r].UnixMilli() / msPerDay))
	default:
		v := c.Floats[r]
		if math.IsNaN(v) {
			return parquet.NullValue()
		}
		return parquet.DoubleValue(v)
	}
}

// Read loads a partition file written by Write. Columns come back in
// the order they were written.
func Read(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, ReadError(path, err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, ReadError(path, err)
	}

	cols, err := columnsOf(pf)
	if err != nil {
		return nil, ReadError(path, err)
	}

	byIndex := make(map[int]*frame.Column, len(cols))
	for i, c := range cols {
		byIndex[i] = c
	}

	buf := make([]parquet.Row, 256)
	for _, rg := range pf.RowGroups() {
		if err = readRowGroup(rg, buf, byIndex); err != nil {
			return nil, ReadError(path, err)
		}
	}

	ordered := cols
	if names, ok := pf.Lookup(ColumnsKey); ok && names != "" {
		ordered = reorder(cols, strings.Split(names, ","))
	}
	res, err := frame.New(ordered...)
	if err != nil {
		return nil, ReadError(path, err)
	}
	return res, nil
}

// columnsOf creates empty columns in leaf column index order.
func columnsOf(pf *parquet.File) ([]*frame.Column, error) {
	fields := pf.Schema().Fields()
	res := make([]*frame.Column, len(fields))
	for _, field := range fields {
		leaf, ok := pf.Schema().Lookup(field.Name())
		if !ok {
			return nil, errors.New("nested column " + field.Name())
		}
		c := &frame.Column{Name: field.Name()}
		switch field.Type().Kind() {
		case parquet.ByteArray:
			c.Kind = frame.String
		case parquet.Int64:
			c.Kind = frame.Timestamp
		case parquet.Int32:
			c.Kind = frame.Date
		case parquet.Double, parquet.Float:
			c.Kind = frame.Float
		default:
			return nil, errors.New("unsupported column " + field.Name())
		}
		res[leaf.ColumnIndex] = c
	}
	return res, nil
}

func readRowGroup(
	rg parquet.RowGroup,
	buf []parquet.Row,
	byIndex map[int]*frame.Column,
) error {
	rows := rg.Rows()
	defer rows.Close()

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for _, v := range row {
				appendValue(byIndex[v.Column()], v)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func appendValue(c *frame.Column, v parquet.Value) {
	if c == nil {
		return
	}
	switch c.Kind {
	case frame.String:
		c.Strings = append(c.Strings, string(v.ByteArray()))
	case frame.Timestamp:
		c.Times = append(c.Times, time.UnixMilli(v.Int64()).UTC())
	case frame.Date:
		c.Times = append(c.Times, time.UnixMilli(int64(v.Int32())*msPerDay).UTC())
	default:
		if v.IsNull() {
			c.Floats = append(c.Floats, math.NaN())
			return
		}
		if v.Kind() == parquet.Float {
			c.Floats = append(c.Floats, float64(v.Float()))
			return
		}
		c.Floats = append(c.Floats, v.Double())
	}
}

func reorder(cols []*frame.Column, names []string) []*frame.Column {
	byName := make(map[string]*frame.Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	res := make([]*frame.Column, 0, len(cols))
	for _, name := range names {
		if c, ok := byName[name]; ok {
			res = append(res, c)
			delete(byName, name)
		}
	}
	// columns missing from metadata keep schema order
	for _, c := range cols {
		if _, ok := byName[c.Name]; ok {
			res = append(res, c)
		}
	}
	return res
}
