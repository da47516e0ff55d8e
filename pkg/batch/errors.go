package batch

import (
	"fmt"
	"runtime"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func BatchFailedError(stage string, failed, total int) error {
	msg := "Stage <em>%s</em>: %d of %d units failed"
	vars := []any{stage, failed, total}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.BatchFailedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s: %d of %d units failed",
			fn.Name(), stage, failed, total),
	}
}
