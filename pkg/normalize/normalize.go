// Package normalize converts reduced hourly series to agronomic units
// and adds derived variables.
package normalize

import (
	"math"
	"slices"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
)

// Apply returns a new frame where catalog variables are converted and
// derived variables are added after existing columns. A derived
// variable is added only when all its sources are present, and a
// missing source value gives NaN. Columns unknown to the catalog pass
// through unchanged. Rows are independent of each other.
func Apply(f *frame.Frame, cat *catalog.Catalog) *frame.Frame {
	res := f.Clone()

	for _, v := range cat.Variables() {
		if v.IsDerived() {
			continue
		}
		vals, ok := res.Floats(v.Name)
		if !ok {
			continue
		}
		for i, x := range vals {
			vals[i] = v.Convert(x)
		}
	}

	for _, v := range cat.Variables() {
		// a derived column already in the input is kept
		if !v.IsDerived() || res.Has(v.Name) {
			continue
		}
		srcs, ok := sources(res, v.DerivedFrom)
		if !ok {
			continue
		}
		vals := make([]float64, res.Len())
		args := make([]float64, len(srcs))
		for i := range vals {
			for j, s := range srcs {
				args[j] = s[i]
			}
			if slices.ContainsFunc(args, math.IsNaN) {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = v.Derive(args...)
		}
		// lengths match by construction
		_ = res.Add(frame.NewFloat(v.Name, vals))
	}

	return res
}

func sources(f *frame.Frame, names []string) ([][]float64, bool) {
	res := make([][]float64, len(names))
	for i, name := range names {
		vals, ok := f.Floats(name)
		if !ok {
			return nil, false
		}
		res[i] = vals
	}
	return res, true
}
