package catalog_test

import (
	"testing"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	assert.Equal(t, "t2m_mean", catalog.ColumnName("t2m", catalog.Mean))
	assert.Equal(t, "tp_sum", catalog.ColumnName("tp", catalog.Sum))
}

func TestConvert(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		msg  string
		name string
		raw  float64
		res  float64
	}{
		{"kelvin to celsius", "t2m", 300, 26.85},
		{"dew point", "d2m", 273.15, 0},
		{"metres to mm", "tp", 0.01, 10},
		{"potential evaporation sign", "pev", -0.002, 2},
		{"joules to megajoules", "ssrd", 2_500_000, 2.5},
		{"unchanged", "swvl1", 0.3, 0.3},
	}

	for _, v := range tests {
		vr, ok := cat.Lookup(v.name)
		require.True(t, ok, v.msg)
		assert.InDelta(t, v.res, vr.Convert(v.raw), 1e-9, v.msg)
	}
}

func TestDerived(t *testing.T) {
	cat := catalog.Default()
	ws, ok := cat.Lookup("wind_speed_10m")
	require.True(t, ok)
	assert.True(t, ws.IsDerived())
	assert.Equal(t, []string{"u10", "v10"}, ws.DerivedFrom)
	assert.Equal(t, 5.0, ws.Derive(3, 4))

	derivs := cat.Derivations()
	require.Len(t, derivs, 1)
	wb := derivs[0]
	assert.Equal(t, "water_balance", wb.Name)
	assert.Equal(t, []string{"tp_sum", "pev_sum"}, wb.From)
	assert.Equal(t, 7.0, wb.Derive(10, 3))
}

func TestStats(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t,
		[]catalog.Stat{catalog.Mean, catalog.Min, catalog.Max},
		cat.Stats("t2m"))
	assert.Equal(t, []catalog.Stat{catalog.Sum}, cat.Stats("tp"))
	assert.Nil(t, cat.Stats("u10"))
	assert.Nil(t, cat.Stats("unknown"))
}

func TestMissingRequired(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		msg       string
		requested []string
		present   []string
		res       []string
	}{
		{"all present", []string{"t2m", "tp"}, []string{"t2m", "tp"}, nil},
		{"optional missing", []string{"t2m", "tp"}, []string{"t2m"}, nil},
		{"required missing", []string{"t2m", "tp"}, []string{"tp"}, []string{"t2m"}},
		{"required not requested", []string{"tp"}, []string{"tp"}, nil},
		{"unknown variable", []string{"foo"}, nil, nil},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, cat.MissingRequired(v.requested, v.present), v.msg)
	}
}

func TestCustomCatalog(t *testing.T) {
	cat := catalog.New([]catalog.Variable{
		{Name: "x", Scale: 2, Offset: 1, Stats: []catalog.Stat{catalog.Max}},
	}, nil)
	x, ok := cat.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 7.0, x.Convert(3))
	assert.Empty(t, cat.Derivations())
}
