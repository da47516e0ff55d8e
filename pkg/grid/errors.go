package grid

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func NoMatchingVariablesError(source string, requested, available []string) error {
	msg := "No requested variables in <em>%s</em>: requested %s, available %s"
	vars := []any{
		source,
		strings.Join(requested, ","),
		strings.Join(available, ","),
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NoMatchingVariablesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no matching variables in %s, available %v",
			fn.Name(), source, available),
	}
}

func SpatialDimsNotFoundError(source string, dims []string) error {
	msg := "Spatial dimensions not found in <em>%s</em>, dims: %s"
	vars := []any{source, strings.Join(dims, ",")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SpatialDimsNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no lat/lon dims in %s, dims %v",
			fn.Name(), source, dims),
	}
}

func NoTimeAxisError(source string, dims []string) error {
	msg := "No time axis (valid_time or time) in <em>%s</em>, dims: %s"
	vars := []any{source, strings.Join(dims, ",")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NoTimeAxisError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no time axis in %s, dims %v",
			fn.Name(), source, dims),
	}
}

func ShapeError(source, variable, reason string) error {
	msg := "Variable <em>%s</em> in <em>%s</em> cannot be reduced: %s"
	vars := []any{variable, source, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GridShapeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s in %s: %s",
			fn.Name(), variable, source, reason),
	}
}
