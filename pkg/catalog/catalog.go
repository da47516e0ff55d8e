// Package catalog is the declarative table of ERA5-Land variables.
// Unit conversion, derived hourly variables, daily statistics and
// daily derivations are all read from a Catalog, so adding a variable
// means adding one entry.
package catalog

import (
	"math"
	"slices"
)

// Stat is a daily statistic.
type Stat string

const (
	Mean Stat = "mean"
	Min  Stat = "min"
	Max  Stat = "max"
	Sum  Stat = "sum"
)

// DeriveFunc computes a value from source values given in the order
// of their declaration.
type DeriveFunc func(vals ...float64) float64

// Variable describes one hourly variable.
type Variable struct {
	// Name is the ERA5-Land short name and the hourly column name.
	Name string

	// Unit of the normalized value.
	Unit string

	// Scale and Offset convert a raw value: raw*Scale + Offset.
	// A zero Scale leaves values unchanged.
	Scale  float64
	Offset float64

	// Stats are daily statistics of the variable.
	Stats []Stat

	// Required variables must be present in a raw file when requested.
	Required bool

	// DerivedFrom lists source variables of a derived variable.
	// Derived variables are not read from raw files.
	DerivedFrom []string
	Derive      DeriveFunc
}

// IsDerived is true for variables computed from other variables.
func (v Variable) IsDerived() bool {
	return len(v.DerivedFrom) > 0
}

// Convert applies Scale and Offset.
func (v Variable) Convert(raw float64) float64 {
	if v.Scale == 0 {
		return raw + v.Offset
	}
	return raw*v.Scale + v.Offset
}

// Derivation is a daily column computed from other daily columns.
type Derivation struct {
	Name   string
	From   []string
	Derive DeriveFunc
}

// Catalog is an ordered set of variables and daily derivations.
// Its order defines output column order.
type Catalog struct {
	vars   []Variable
	derivs []Derivation
}

// New creates a Catalog.
func New(vars []Variable, derivs []Derivation) *Catalog {
	return &Catalog{
		vars:   slices.Clone(vars),
		derivs: slices.Clone(derivs),
	}
}

// ColumnName is the name of a daily statistic column.
func ColumnName(variable string, stat Stat) string {
	return variable + "_" + string(stat)
}

// Variables returns catalog entries in order.
func (c *Catalog) Variables() []Variable {
	return slices.Clone(c.vars)
}

// Derivations returns daily derivations in order.
func (c *Catalog) Derivations() []Derivation {
	return slices.Clone(c.derivs)
}

// Lookup finds a variable by name.
func (c *Catalog) Lookup(name string) (Variable, bool) {
	for _, v := range c.vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Stats returns daily statistics of a variable, nil for unknown ones.
func (c *Catalog) Stats(name string) []Stat {
	v, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	return slices.Clone(v.Stats)
}

// MissingRequired returns required variables that were requested but
// are not present.
func (c *Catalog) MissingRequired(requested, present []string) []string {
	var res []string
	for _, name := range requested {
		v, ok := c.Lookup(name)
		if !ok || !v.Required || v.IsDerived() {
			continue
		}
		if !slices.Contains(present, name) {
			res = append(res, name)
		}
	}
	return res
}

// Default returns the ERA5-Land catalog.
//
// Accumulated evaporation variables (pev, evavt) are negative for
// upward fluxes in ERA5, they are converted to positive millimetres.
func Default() *Catalog {
	kelvin := -273.15
	vars := []Variable{
		{Name: "t2m", Unit: "degC", Offset: kelvin,
			Stats: []Stat{Mean, Min, Max}, Required: true},
		{Name: "d2m", Unit: "degC", Offset: kelvin,
			Stats: []Stat{Mean}},
		{Name: "tp", Unit: "mm", Scale: 1000,
			Stats: []Stat{Sum}},
		{Name: "u10", Unit: "m s-1"},
		{Name: "v10", Unit: "m s-1"},
		{Name: "wind_speed_10m", Unit: "m s-1",
			Stats:       []Stat{Mean},
			DerivedFrom: []string{"u10", "v10"},
			Derive:      hypot},
		{Name: "swvl1", Unit: "m3 m-3", Stats: []Stat{Mean}},
		{Name: "swvl2", Unit: "m3 m-3", Stats: []Stat{Mean}},
		{Name: "pev", Unit: "mm", Scale: -1000, Stats: []Stat{Sum}},
		{Name: "evavt", Unit: "mm", Scale: -1000, Stats: []Stat{Sum}},
		{Name: "ssrd", Unit: "MJ m-2", Scale: 1e-6, Stats: []Stat{Sum}},
		{Name: "ssr", Unit: "MJ m-2", Scale: 1e-6, Stats: []Stat{Sum}},
		{Name: "lai_hv", Unit: "m2 m-2", Stats: []Stat{Mean}},
		{Name: "lai_lv", Unit: "m2 m-2", Stats: []Stat{Mean}},
	}
	derivs := []Derivation{
		{
			Name:   "water_balance",
			From:   []string{ColumnName("tp", Sum), ColumnName("pev", Sum)},
			Derive: difference,
		},
	}
	return New(vars, derivs)
}

func hypot(vals ...float64) float64 {
	return math.Hypot(vals[0], vals[1])
}

func difference(vals ...float64) float64 {
	return vals[0] - vals[1]
}
