// Package aggregate rolls hourly regional series up to daily
// statistics.
package aggregate

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
)

var (
	regionColumn = partition.RegionColumn
	timeColumn   = partition.Hourly.KeyColumn
	dayColumn    = partition.Daily.KeyColumn
)

type groupKey struct {
	region string
	day    time.Time
}

// Daily groups hourly rows by region and UTC calendar day and computes
// catalog statistics for every variable present. Groups are sorted by
// region and day. Statistics skip missing values, a group without
// values gives NaN. Daily derivations are added when all their inputs
// are present.
func Daily(hourly *frame.Frame, cat *catalog.Catalog) (*frame.Frame, error) {
	regions, ok := hourly.Strings(regionColumn)
	if !ok {
		return nil, MissingColumnError(regionColumn, hourly.Names())
	}
	times, ok := hourly.Times(timeColumn)
	if !ok {
		return nil, MissingColumnError(timeColumn, hourly.Names())
	}

	groups := make(map[groupKey][]int)
	var keys []groupKey
	for i := range regions {
		k := groupKey{region: regions[i], day: frame.Day(times[i])}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}
	slices.SortFunc(keys, func(a, b groupKey) int {
		if c := cmp.Compare(a.region, b.region); c != 0 {
			return c
		}
		return a.day.Compare(b.day)
	})

	keyRegions := make([]string, len(keys))
	keyDays := make([]time.Time, len(keys))
	for i, k := range keys {
		keyRegions[i] = k.region
		keyDays[i] = k.day
	}
	res, err := frame.New(
		frame.NewString(regionColumn, keyRegions),
		frame.NewDate(dayColumn, keyDays),
	)
	if err != nil {
		return nil, err
	}

	for _, v := range cat.Variables() {
		vals, ok := hourly.Floats(v.Name)
		if !ok {
			continue
		}
		for _, stat := range cat.Stats(v.Name) {
			col := make([]float64, len(keys))
			for i, k := range keys {
				col[i] = compute(stat, vals, groups[k])
			}
			err = res.Add(frame.NewFloat(catalog.ColumnName(v.Name, stat), col))
			if err != nil {
				return nil, err
			}
		}
	}

	if err = derive(res, cat); err != nil {
		return nil, err
	}
	return res, nil
}

// Combine stacks daily frames of one period. Columns missing in some
// frames are filled with NaN.
func Combine(parts []*frame.Frame) (*frame.Frame, error) {
	return frame.Concat(parts...)
}

func derive(daily *frame.Frame, cat *catalog.Catalog) error {
	for _, d := range cat.Derivations() {
		srcs := make([][]float64, len(d.From))
		present := true
		for i, name := range d.From {
			vals, ok := daily.Floats(name)
			if !ok {
				present = false
				break
			}
			srcs[i] = vals
		}
		if !present {
			continue
		}

		col := make([]float64, daily.Len())
		args := make([]float64, len(srcs))
		for i := range col {
			for j, s := range srcs {
				args[j] = s[i]
			}
			if slices.ContainsFunc(args, math.IsNaN) {
				col[i] = math.NaN()
				continue
			}
			col[i] = d.Derive(args...)
		}
		if err := daily.Add(frame.NewFloat(d.Name, col)); err != nil {
			return err
		}
	}
	return nil
}

func compute(stat catalog.Stat, vals []float64, idx []int) float64 {
	var sum float64
	var count int
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := vals[i]
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if count == 0 {
		return math.NaN()
	}

	switch stat {
	case catalog.Sum:
		return sum
	case catalog.Min:
		return lo
	case catalog.Max:
		return hi
	default:
		return sum / float64(count)
	}
}
