package ioarchive

import (
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
)

// SourceAbsentError is not a failure, callers skip the unit.
func SourceAbsentError(path string) error {
	msg := "No raw file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SourceAbsentError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), path, fs.ErrNotExist),
	}
}

func OpenError(path string, err error) error {
	msg := "Cannot open raw file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ArchiveOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn.Name(), path, err),
	}
}

func NoGridError(path string, members []string) error {
	msg := "Archive <em>%s</em> has no .nc member, members: %s"
	vars := []any{path, strings.Join(members, ",")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ArchiveNoGridError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no .nc member in %s, members %v",
			fn.Name(), path, members),
	}
}
