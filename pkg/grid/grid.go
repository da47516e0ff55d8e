// Package grid reduces gridded fields of a dataset to a regional time
// series by averaging over spatial dimensions.
package grid

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
)

// TimeColumn is the name of the time column of reduced series.
const TimeColumn = "ts"

// TimeDims are accepted names of the time dimension, by preference.
var TimeDims = []string{"valid_time", "time"}

// Var is a gridded variable. Data is row-major over Dims with NaN for
// missing cells, it is nil when values were not loaded.
type Var struct {
	Name  string
	Dims  []string
	Shape []int
	Data  []float64
}

// Dataset is the content of one raw file.
type Dataset struct {
	// Source identifies the file in error messages.
	Source string

	// Vars are data variables (coordinates excluded).
	Vars []Var

	// Times are decoded time coordinates keyed by dimension name.
	Times map[string][]time.Time
}

// VarNames returns names of data variables.
func (ds *Dataset) VarNames() []string {
	res := make([]string, len(ds.Vars))
	for i, v := range ds.Vars {
		res[i] = v.Name
	}
	return res
}

// Var finds a data variable by name.
func (ds *Dataset) Var(name string) (Var, bool) {
	for _, v := range ds.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}

// Reduce averages requested variables over latitude and longitude,
// skipping missing cells. The result has one row per timestamp sorted
// by time, a ts column and one column per retained variable in
// requested order. Requested variables absent from the dataset are
// dropped, if none remain it is an error.
func Reduce(ds *Dataset, requested []string) (*frame.Frame, error) {
	var retained []Var
	for _, name := range requested {
		if v, ok := ds.Var(name); ok {
			retained = append(retained, v)
		}
	}
	if len(retained) == 0 {
		return nil, NoMatchingVariablesError(ds.Source, requested, ds.VarNames())
	}

	dims := allDims(retained)
	spatial := spatialDims(dims)
	if len(spatial) == 0 {
		return nil, SpatialDimsNotFoundError(ds.Source, dims)
	}

	timeDim, times := timeAxis(ds, dims)
	if timeDim == "" {
		return nil, NoTimeAxisError(ds.Source, dims)
	}

	res, err := frame.New(frame.NewTimestamp(TimeColumn, times))
	if err != nil {
		return nil, err
	}
	for _, v := range retained {
		vals, err := reduceVar(ds.Source, v, spatial, timeDim, len(times))
		if err != nil {
			return nil, err
		}
		if err = res.Add(frame.NewFloat(v.Name, vals)); err != nil {
			return nil, err
		}
	}

	return res.SortStable(func(i, j int) bool {
		return times[i].Before(times[j])
	}), nil
}

func allDims(vars []Var) []string {
	var res []string
	for _, v := range vars {
		for _, d := range v.Dims {
			if !slices.Contains(res, d) {
				res = append(res, d)
			}
		}
	}
	return res
}

// spatialDims prefers the canonical latitude/longitude pair and falls
// back to any lat/lon aliases.
func spatialDims(dims []string) []string {
	var lat, lon string
	for _, d := range dims {
		switch strings.ToLower(d) {
		case "latitude":
			lat = d
		case "longitude":
			lon = d
		}
	}
	if lat != "" && lon != "" {
		return []string{lat, lon}
	}

	var res []string
	for _, d := range dims {
		switch strings.ToLower(d) {
		case "lat", "lon", "latitude", "longitude":
			res = append(res, d)
		}
	}
	return res
}

func timeAxis(ds *Dataset, dims []string) (string, []time.Time) {
	for _, name := range TimeDims {
		if !slices.Contains(dims, name) {
			continue
		}
		if times, ok := ds.Times[name]; ok {
			return name, times
		}
	}
	return "", nil
}

func reduceVar(
	source string,
	v Var,
	spatial []string,
	timeDim string,
	n int,
) ([]float64, error) {
	if len(v.Dims) != len(v.Shape) || v.Data == nil {
		return nil, ShapeError(source, v.Name, "values are not loaded")
	}
	size := 1
	for _, s := range v.Shape {
		size *= s
	}
	if size != len(v.Data) {
		return nil, ShapeError(source, v.Name, "shape does not match values")
	}

	timeAx := -1
	for i, d := range v.Dims {
		switch {
		case d == timeDim:
			timeAx = i
			if v.Shape[i] != n {
				return nil, ShapeError(source, v.Name,
					"time dimension does not match time coordinate")
			}
		case slices.Contains(spatial, d):
		case v.Shape[i] == 1:
		default:
			return nil, ShapeError(source, v.Name,
				"unexpected dimension "+d)
		}
	}

	// stride of the time axis in row-major order
	stride := 1
	if timeAx >= 0 {
		for _, s := range v.Shape[timeAx+1:] {
			stride *= s
		}
	}

	sums := make([]float64, n)
	counts := make([]int, n)
	var total float64
	var totalCount int
	for i, val := range v.Data {
		if math.IsNaN(val) {
			continue
		}
		if timeAx < 0 {
			total += val
			totalCount++
			continue
		}
		t := (i / stride) % n
		sums[t] += val
		counts[t]++
	}

	res := make([]float64, n)
	for t := range res {
		switch {
		case timeAx < 0 && totalCount > 0:
			res[t] = total / float64(totalCount)
		case timeAx >= 0 && counts[t] > 0:
			res[t] = sums[t] / float64(counts[t])
		default:
			res[t] = math.NaN()
		}
	}
	return res, nil
}
