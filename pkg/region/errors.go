package region

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

func ParseError(err error) error {
	msg := "Cannot parse regions registry"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionsFileError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot parse regions: %w", fn.Name(), err),
	}
}

func AreaError(id string, n int) error {
	msg := "Region <em>%s</em> must have area [N, W, S, E], got %d numbers"
	vars := []any{id, n}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionAreaError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: region %s has %d area numbers",
			fn.Name(), id, n),
	}
}

func NotFoundError(id string, known []string) error {
	msg := "Region <em>%s</em> is not in the registry (known: %s)"
	vars := []any{id, strings.Join(known, ", ")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown region %s", fn.Name(), id),
	}
}
