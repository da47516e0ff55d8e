// Package frame provides a small typed columnar table used by every
// stage of the pipeline. Measures are float64 columns where NaN marks
// a missing value.
package frame

import (
	"math"
	"slices"
	"sort"
	"time"
)

// Kind is a column type.
type Kind int

const (
	String Kind = iota
	Timestamp
	Date
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	case Float:
		return "float"
	}
	return "unknown"
}

// Column is a named typed vector. Only the slice matching Kind is used,
// Timestamp and Date share Times. Date values are UTC midnights.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Times   []time.Time
	Floats  []float64
}

// NewString creates a string column.
func NewString(name string, vals []string) *Column {
	return &Column{Name: name, Kind: String, Strings: vals}
}

// NewTimestamp creates a timestamp column.
func NewTimestamp(name string, vals []time.Time) *Column {
	return &Column{Name: name, Kind: Timestamp, Times: vals}
}

// NewDate creates a date column, values are truncated to UTC days.
func NewDate(name string, vals []time.Time) *Column {
	days := make([]time.Time, len(vals))
	for i, v := range vals {
		days[i] = Day(v)
	}
	return &Column{Name: name, Kind: Date, Times: days}
}

// NewFloat creates a measure column.
func NewFloat(name string, vals []float64) *Column {
	return &Column{Name: name, Kind: Float, Floats: vals}
}

// Day returns the UTC calendar date of t as a UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len is the number of values in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case String:
		return len(c.Strings)
	case Timestamp, Date:
		return len(c.Times)
	default:
		return len(c.Floats)
	}
}

func (c *Column) clone() *Column {
	return &Column{
		Name:    c.Name,
		Kind:    c.Kind,
		Strings: slices.Clone(c.Strings),
		Times:   slices.Clone(c.Times),
		Floats:  slices.Clone(c.Floats),
	}
}

func (c *Column) take(idx []int) *Column {
	res := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case String:
		res.Strings = make([]string, len(idx))
		for i, j := range idx {
			res.Strings[i] = c.Strings[j]
		}
	case Timestamp, Date:
		res.Times = make([]time.Time, len(idx))
		for i, j := range idx {
			res.Times[i] = c.Times[j]
		}
	default:
		res.Floats = make([]float64, len(idx))
		for i, j := range idx {
			res.Floats[i] = c.Floats[j]
		}
	}
	return res
}

// filler returns a column of n missing values.
func filler(name string, kind Kind, n int) *Column {
	res := &Column{Name: name, Kind: kind}
	switch kind {
	case String:
		res.Strings = make([]string, n)
	case Timestamp, Date:
		res.Times = make([]time.Time, n)
	default:
		res.Floats = make([]float64, n)
		for i := range res.Floats {
			res.Floats[i] = math.NaN()
		}
	}
	return res
}

func (c *Column) appendColumn(o *Column) {
	switch c.Kind {
	case String:
		c.Strings = append(c.Strings, o.Strings...)
	case Timestamp, Date:
		c.Times = append(c.Times, o.Times...)
	default:
		c.Floats = append(c.Floats, o.Floats...)
	}
}

// Frame is an ordered set of equally long columns.
type Frame struct {
	cols []*Column
}

// New creates a Frame from columns. All columns must have the same
// length and unique names.
func New(cols ...*Column) (*Frame, error) {
	res := &Frame{}
	for _, c := range cols {
		if err := res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Len is the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Names returns column names in order.
func (f *Frame) Names() []string {
	res := make([]string, len(f.cols))
	for i, c := range f.cols {
		res[i] = c.Name
	}
	return res
}

// Columns returns columns in order.
func (f *Frame) Columns() []*Column {
	return slices.Clone(f.cols)
}

// Has checks if a column exists.
func (f *Frame) Has(name string) bool {
	return f.indexOf(name) >= 0
}

// Column returns a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i := f.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return f.cols[i], true
}

// Floats returns values of a measure column.
func (f *Frame) Floats(name string) ([]float64, bool) {
	c, ok := f.Column(name)
	if !ok || c.Kind != Float {
		return nil, false
	}
	return c.Floats, true
}

// Times returns values of a timestamp or date column.
func (f *Frame) Times(name string) ([]time.Time, bool) {
	c, ok := f.Column(name)
	if !ok || (c.Kind != Timestamp && c.Kind != Date) {
		return nil, false
	}
	return c.Times, true
}

// Strings returns values of a string column.
func (f *Frame) Strings(name string) ([]string, bool) {
	c, ok := f.Column(name)
	if !ok || c.Kind != String {
		return nil, false
	}
	return c.Strings, true
}

// Add appends a column, replacing a column with the same name in place.
func (f *Frame) Add(c *Column) error {
	if len(f.cols) > 0 && c.Len() != f.Len() {
		return LengthError(c.Name, c.Len(), f.Len())
	}
	if i := f.indexOf(c.Name); i >= 0 {
		f.cols[i] = c
		return nil
	}
	f.cols = append(f.cols, c)
	return nil
}

// Insert puts a column at position i, removing a column with the same
// name first.
func (f *Frame) Insert(i int, c *Column) error {
	if j := f.indexOf(c.Name); j >= 0 {
		f.cols = slices.Delete(f.cols, j, j+1)
	}
	if len(f.cols) > 0 && c.Len() != f.Len() {
		return LengthError(c.Name, c.Len(), f.Len())
	}
	i = min(max(i, 0), len(f.cols))
	f.cols = slices.Insert(f.cols, i, c)
	return nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	res := &Frame{cols: make([]*Column, len(f.cols))}
	for i, c := range f.cols {
		res.cols[i] = c.clone()
	}
	return res
}

// Take returns a new frame with rows at idx, in idx order.
func (f *Frame) Take(idx []int) *Frame {
	res := &Frame{cols: make([]*Column, len(f.cols))}
	for i, c := range f.cols {
		res.cols[i] = c.take(idx)
	}
	return res
}

// SortStable returns a new frame with rows stably sorted by less.
func (f *Frame) SortStable(less func(i, j int) bool) *Frame {
	idx := make([]int, f.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return less(idx[a], idx[b])
	})
	return f.Take(idx)
}

// Concat stacks frames vertically. The result has the union of columns
// in first-seen order, absent values are filled as missing. Columns
// sharing a name must share a kind.
func Concat(frames ...*Frame) (*Frame, error) {
	var names []string
	kinds := make(map[string]Kind)
	for _, fr := range frames {
		for _, c := range fr.cols {
			k, ok := kinds[c.Name]
			if !ok {
				kinds[c.Name] = c.Kind
				names = append(names, c.Name)
				continue
			}
			if k != c.Kind {
				return nil, KindError(c.Name, k, c.Kind)
			}
		}
	}

	res := &Frame{cols: make([]*Column, len(names))}
	for i, name := range names {
		res.cols[i] = filler(name, kinds[name], 0)
	}
	for _, fr := range frames {
		n := fr.Len()
		for _, c := range res.cols {
			src, ok := fr.Column(c.Name)
			if !ok {
				src = filler(c.Name, c.Kind, n)
			}
			c.appendColumn(src)
		}
	}
	return res, nil
}

func (f *Frame) indexOf(name string) int {
	for i, c := range f.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
