package iodb_test

import (
	"errors"
	"testing"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodb"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		wrap bool
	}{
		{"connection",
			iodb.ConnectionError("localhost", 5432, "agri", "agri", cause),
			errcode.DBConnectionError, true},
		{"not connected", iodb.NotConnectedError(), errcode.DBNotConnectedError, false},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.True(t, errcode.Is(v.err, v.code))
			assert.Equal(t, v.wrap, errors.Is(v.err, cause))
			var gnErr *gn.Error
			assert.True(t, errors.As(v.err, &gnErr))
			assert.NotEmpty(t, gnErr.Msg)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := iotestingDatabase()
	assert.Equal(t,
		"postgres://u:p@db:5433/agri_test?sslmode=disable",
		iodb.DSN(cfg))
}
