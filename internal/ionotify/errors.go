package ionotify

import (
	"fmt"
	"runtime"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func NotifyError(topic, path string, err error) error {
	msg := "Cannot publish load event of <em>%s</em> to <em>%s</em>"
	vars := []any{path, topic}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NotifyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: topic %s: %w", fn.Name(), topic, err),
	}
}
