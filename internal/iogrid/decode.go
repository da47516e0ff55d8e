package iogrid

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

var refLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// decodeValues flattens values in row-major order and unpacks them.
// Nil data means the variable is not numeric.
func decodeValues(v rawVar) ([]float64, []int, error) {
	vals, err := v.values()
	if err != nil {
		return nil, nil, err
	}
	data, shape, ok := flatten(vals)
	if !ok {
		return nil, nil, nil
	}

	var fills []float64
	for _, key := range []string{"_FillValue", "missing_value"} {
		if f, ok := attrFloat(v.attr, key); ok {
			fills = append(fills, f)
		}
	}
	scale, hasScale := attrFloat(v.attr, "scale_factor")
	offset, _ := attrFloat(v.attr, "add_offset")
	if !hasScale {
		scale = 1
	}

	for i, x := range data {
		if isFill(x, fills) {
			data[i] = math.NaN()
			continue
		}
		data[i] = x*scale + offset
	}
	return data, shape, nil
}

func isFill(x float64, fills []float64) bool {
	for _, f := range fills {
		if x == f || (math.IsNaN(f) && math.IsNaN(x)) {
			return true
		}
	}
	return false
}

// decodeTimes converts a CF time coordinate ("<unit> since <ref>").
func decodeTimes(v rawVar) ([]time.Time, error) {
	units, ok := attrString(v.attr, "units")
	if !ok {
		return nil, fmt.Errorf("time coordinate has no units")
	}
	step, ref, err := parseUnits(units)
	if err != nil {
		return nil, err
	}

	vals, err := v.values()
	if err != nil {
		return nil, err
	}
	data, _, ok := flatten(vals)
	if !ok {
		return nil, fmt.Errorf("time coordinate is not numeric")
	}

	res := make([]time.Time, len(data))
	for i, x := range data {
		res[i] = ref.Add(time.Duration(math.Round(x * float64(step))))
	}
	return res, nil
}

func parseUnits(units string) (time.Duration, time.Time, error) {
	unit, refStr, ok := strings.Cut(strings.TrimSpace(units), " since ")
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}

	var step time.Duration
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "seconds", "second", "s":
		step = time.Second
	case "minutes", "minute", "min":
		step = time.Minute
	case "hours", "hour", "h":
		step = time.Hour
	case "days", "day", "d":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q", unit)
	}

	refStr = strings.TrimSpace(refStr)
	refStr = strings.TrimSuffix(refStr, "UTC")
	refStr = strings.TrimSuffix(refStr, "Z")
	refStr = strings.TrimSpace(refStr)
	// fractional seconds like "00:00:00.0"
	if i := strings.LastIndex(refStr, "."); i > strings.LastIndex(refStr, ":") &&
		strings.Contains(refStr, ":") {
		refStr = refStr[:i]
	}
	for _, layout := range refLayouts {
		if ref, err := time.Parse(layout, refStr); err == nil {
			return step, ref.UTC(), nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unsupported reference time %q", refStr)
}

// flatten walks nested slices of numbers.
func flatten(vals any) ([]float64, []int, bool) {
	rv := reflect.ValueOf(vals)
	var shape []int
	for cur := rv; cur.Kind() == reflect.Slice || cur.Kind() == reflect.Array; {
		shape = append(shape, cur.Len())
		if cur.Len() == 0 {
			break
		}
		cur = cur.Index(0)
	}

	var res []float64
	ok := walk(rv, &res)
	if !ok {
		return nil, nil, false
	}
	size := 1
	for _, s := range shape {
		size *= s
	}
	if size != len(res) {
		// ragged input
		return nil, nil, false
	}
	return res, shape, true
}

func walk(rv reflect.Value, res *[]float64) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if !walk(rv.Index(i), res) {
				return false
			}
		}
		return true
	case reflect.Interface:
		return walk(rv.Elem(), res)
	default:
		f, ok := number(rv)
		if ok {
			*res = append(*res, f)
		}
		return ok
	}
}

func number(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// attrFloat reads a numeric attribute, single-element arrays included.
func attrFloat(attr func(string) (any, bool), key string) (float64, bool) {
	val, ok := attr(key)
	if !ok || val == nil {
		return 0, false
	}
	data, _, ok := flatten(val)
	if !ok || len(data) != 1 {
		return 0, false
	}
	return data[0], true
}

func attrString(attr func(string) (any, bool), key string) (string, bool) {
	val, ok := attr(key)
	if !ok {
		return "", false
	}
	switch s := val.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}
