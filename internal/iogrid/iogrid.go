// Package iogrid reads NetCDF files into grid datasets using a pure Go
// NetCDF reader. Packed values are unpacked with scale_factor and
// add_offset, fill values become NaN and CF time coordinates are
// decoded.
package iogrid

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/grid"
	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// Read opens a NetCDF file read-only and builds a dataset. Metadata of
// all data variables is returned, values are loaded only for variables
// listed in want. The file is closed before Read returns.
func Read(path string, want []string) (*grid.Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer nc.Close()

	return build(path, ncGroup{nc: nc}, want)
}

// rawVar is a variable with lazily loaded values.
type rawVar struct {
	dims   []string
	attr   func(key string) (any, bool)
	values func() (any, error)
}

type group interface {
	names() []string
	variable(name string) (rawVar, error)
}

type ncGroup struct {
	nc api.Group
}

func (g ncGroup) names() []string {
	return g.nc.ListVariables()
}

func (g ncGroup) variable(name string) (rawVar, error) {
	vg, err := g.nc.GetVarGetter(name)
	if err != nil {
		return rawVar{}, err
	}
	res := rawVar{
		dims:   vg.Dimensions(),
		values: vg.Values,
		attr:   func(string) (any, bool) { return nil, false },
	}
	if attrs := vg.Attributes(); attrs != nil {
		res.attr = attrs.Get
	}
	return res, nil
}

func build(path string, g group, want []string) (*grid.Dataset, error) {
	names := g.names()
	vars := make(map[string]rawVar, len(names))
	for _, name := range names {
		v, err := g.variable(name)
		if err != nil {
			return nil, ReadError(path, name, err)
		}
		vars[name] = v
	}

	coords := coordinateNames(names, vars)
	res := &grid.Dataset{
		Source: path,
		Times:  make(map[string][]time.Time),
	}

	for _, name := range grid.TimeDims {
		v, ok := vars[name]
		if !ok {
			continue
		}
		times, err := decodeTimes(v)
		if err != nil {
			return nil, ReadError(path, name, err)
		}
		res.Times[name] = times
	}

	for _, name := range names {
		v := vars[name]
		if coords[name] || len(v.dims) == 0 {
			continue
		}
		gv := grid.Var{Name: name, Dims: slices.Clone(v.dims)}
		if slices.Contains(want, name) {
			data, shape, err := decodeValues(v)
			if err != nil {
				return nil, ReadError(path, name, err)
			}
			if data == nil {
				slog.Debug("Skipping non-numeric variable",
					"file", path, "variable", name)
				continue
			}
			gv.Data, gv.Shape = data, shape
		}
		res.Vars = append(res.Vars, gv)
	}
	return res, nil
}

// coordinateNames marks dimension coordinates and auxiliary
// coordinates named in "coordinates" attributes.
func coordinateNames(names []string, vars map[string]rawVar) map[string]bool {
	res := make(map[string]bool)
	for _, name := range names {
		v := vars[name]
		if len(v.dims) == 1 && v.dims[0] == name {
			res[name] = true
		}
		if s, ok := attrString(v.attr, "coordinates"); ok {
			for _, c := range strings.Fields(s) {
				res[c] = true
			}
		}
	}
	return res
}
