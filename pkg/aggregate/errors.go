package aggregate

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func MissingColumnError(column string, columns []string) error {
	msg := "Hourly input has no <em>%s</em> column, columns: %s"
	vars := []any{column, strings.Join(columns, ",")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InputColumnsError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: missing column %s in %v",
			fn.Name(), column, columns),
	}
}
