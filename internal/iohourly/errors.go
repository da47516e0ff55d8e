package iohourly

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func MissingRequiredVariableError(source string, missing, present []string) error {
	msg := `File <em>%s</em> misses required variables: %s
Present columns: %s`
	vars := []any{source, strings.Join(missing, ", "), strings.Join(present, ", ")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MissingRequiredVariableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s misses required %v, present %v",
			fn.Name(), source, missing, present),
	}
}

func CancelledError(err error) error {
	msg := "Hourly build was cancelled"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
