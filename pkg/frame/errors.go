package frame

import (
	"fmt"
	"runtime"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func LengthError(name string, got, want int) error {
	msg := "Column <em>%s</em> has %d rows, frame has %d"
	vars := []any{name, got, want}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InputColumnsError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: column %s length %d != %d",
			fn.Name(), name, got, want),
	}
}

func KindError(name string, a, b Kind) error {
	msg := "Column <em>%s</em> is %s in one frame and %s in another"
	vars := []any{name, a, b}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InputColumnsError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: column %s kind mismatch %s/%s",
			fn.Name(), name, a, b),
	}
}
