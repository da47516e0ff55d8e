package config

import (
	"fmt"
	"runtime"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

// RunYearError is returned when a batch command has no valid year.
func RunYearError() error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunSelectionError,
		Msg:  "Set a year between 1950 and 2100 with <em>--year</em>",
		Err:  fmt.Errorf("from %s: batch year is not set", fn.Name()),
	}
}

// RunMonthsError is returned when a batch command has no valid months.
func RunMonthsError() error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunSelectionError,
		Msg:  "Set months between 1 and 12 with <em>--months</em>",
		Err:  fmt.Errorf("from %s: batch months are not set", fn.Name()),
	}
}
