package iometrics

import (
	"fmt"
	"runtime"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func PushError(url string, err error) error {
	msg := "Cannot push metrics to <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MetricsPushError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: push to %s: %w", fn.Name(), url, err),
	}
}
