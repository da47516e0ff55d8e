package iodaily

import (
	"fmt"
	"runtime"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func GlobError(pattern string, err error) error {
	msg := "Bad partition pattern <em>%s</em>"
	vars := []any{pattern}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PartitionReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: glob %s: %w", fn.Name(), pattern, err),
	}
}

func CancelledError(err error) error {
	msg := "Daily build was cancelled"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
