package aggregate_test

import (
	"math"
	"testing"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/aggregate"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func ts(day, hour int) time.Time {
	return time.Date(2024, 7, day, hour, 0, 0, 0, time.UTC)
}

func date(day int) time.Time {
	return time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC)
}

func TestDaily(t *testing.T) {
	hourly, err := frame.New(
		frame.NewString("region", []string{"r1", "r1", "r1", "r1"}),
		frame.NewTimestamp("ts", []time.Time{ts(1, 0), ts(1, 1), ts(1, 2), ts(2, 0)}),
		frame.NewFloat("t2m", []float64{10, 14, 12, 20}),
		frame.NewFloat("tp", []float64{1, 2, 3, 4}),
		frame.NewFloat("u10", []float64{1, 1, 1, 1}),
	)
	require.NoError(t, err)

	daily, err := aggregate.Daily(hourly, catalog.Default())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"region", "day", "t2m_mean", "t2m_min", "t2m_max", "tp_sum"},
		daily.Names())
	assert.Equal(t, 2, daily.Len())

	days, _ := daily.Times("day")
	assert.Equal(t, []time.Time{date(1), date(2)}, days)

	tests := []struct {
		col string
		res []float64
	}{
		{"t2m_mean", []float64{12, 20}},
		{"t2m_min", []float64{10, 20}},
		{"t2m_max", []float64{14, 20}},
		{"tp_sum", []float64{6, 4}},
	}
	for _, v := range tests {
		vals, ok := daily.Floats(v.col)
		require.True(t, ok, v.col)
		assert.Equal(t, v.res, vals, v.col)
	}
	assert.False(t, daily.Has("water_balance"), "pev is absent")
}

func TestDailyWaterBalance(t *testing.T) {
	hourly, err := frame.New(
		frame.NewString("region", []string{"r1", "r1"}),
		frame.NewTimestamp("ts", []time.Time{ts(1, 0), ts(1, 1)}),
		frame.NewFloat("tp", []float64{4, 6}),
		frame.NewFloat("pev", []float64{1, 2}),
	)
	require.NoError(t, err)

	daily, err := aggregate.Daily(hourly, catalog.Default())
	require.NoError(t, err)

	wb, ok := daily.Floats("water_balance")
	require.True(t, ok)
	assert.Equal(t, []float64{7}, wb)
}

func TestDailyGroupsAndOrder(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	hourly, err := frame.New(
		frame.NewString("region", []string{"r2", "r1", "r2", "r1"}),
		frame.NewTimestamp("ts", []time.Time{
			ts(1, 5),
			ts(2, 0),
			ts(1, 6),
			// 2024-07-02 01:00 MSK is 2024-07-01 22:00 UTC
			time.Date(2024, 7, 2, 1, 0, 0, 0, msk),
		}),
		frame.NewFloat("d2m", []float64{1, 2, 3, 4}),
	)
	require.NoError(t, err)

	daily, err := aggregate.Daily(hourly, catalog.Default())
	require.NoError(t, err)

	regions, _ := daily.Strings("region")
	days, _ := daily.Times("day")
	d2m, _ := daily.Floats("d2m_mean")
	assert.Equal(t, []string{"r1", "r1", "r2"}, regions)
	assert.Equal(t, []time.Time{date(1), date(2), date(1)}, days)
	assert.Equal(t, []float64{4, 2, 2}, d2m)
}

func TestDailyMissingValues(t *testing.T) {
	hourly, err := frame.New(
		frame.NewString("region", []string{"r1", "r1", "r1"}),
		frame.NewTimestamp("ts", []time.Time{ts(1, 0), ts(1, 1), ts(2, 0)}),
		frame.NewFloat("t2m", []float64{nan, 8, nan}),
		frame.NewFloat("tp", []float64{nan, 1, nan}),
	)
	require.NoError(t, err)

	daily, err := aggregate.Daily(hourly, catalog.Default())
	require.NoError(t, err)

	mean, _ := daily.Floats("t2m_mean")
	assert.Equal(t, 8.0, mean[0])
	assert.True(t, math.IsNaN(mean[1]))

	sum, _ := daily.Floats("tp_sum")
	assert.Equal(t, 1.0, sum[0])
	assert.True(t, math.IsNaN(sum[1]), "sum of no values is missing")
}

func TestDailyInputErrors(t *testing.T) {
	noRegion, err := frame.New(
		frame.NewTimestamp("ts", []time.Time{ts(1, 0)}),
	)
	require.NoError(t, err)
	_, err = aggregate.Daily(noRegion, catalog.Default())
	assert.True(t, errcode.Is(err, errcode.InputColumnsError))

	noTime, err := frame.New(
		frame.NewString("region", []string{"r1"}),
	)
	require.NoError(t, err)
	_, err = aggregate.Daily(noTime, catalog.Default())
	assert.True(t, errcode.Is(err, errcode.InputColumnsError))
}

func TestCombine(t *testing.T) {
	a, err := frame.New(
		frame.NewString("region", []string{"r1"}),
		frame.NewDate("day", []time.Time{date(1)}),
		frame.NewFloat("t2m_mean", []float64{10}),
	)
	require.NoError(t, err)
	b, err := frame.New(
		frame.NewString("region", []string{"r2"}),
		frame.NewDate("day", []time.Time{date(1)}),
		frame.NewFloat("tp_sum", []float64{3}),
	)
	require.NoError(t, err)

	res, err := aggregate.Combine([]*frame.Frame{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "day", "t2m_mean", "tp_sum"}, res.Names())
	assert.Equal(t, 2, res.Len())

	tp, _ := res.Floats("tp_sum")
	assert.True(t, math.IsNaN(tp[0]))
	assert.Equal(t, 3.0, tp[1])
}
