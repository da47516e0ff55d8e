// Package errcode enumerates error codes used by agrimart's gn.Error values.
package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	RegionsFileError
	RegionAreaError
	RegionNotFoundError
	RunSelectionError

	// Raw source errors
	SourceAbsentError
	ArchiveOpenError
	ArchiveNoGridError
	GridOpenError
	GridReadError

	// Reduction errors
	NoMatchingVariablesError
	SpatialDimsNotFoundError
	NoTimeAxisError
	GridShapeError
	MissingRequiredVariableError

	// Partition errors
	PartitionWriteError
	PartitionReadError
	PartitionEmptyError
	InputColumnsError

	// Batch errors
	UnitFailedError
	BatchFailedError
	CancelledError

	// Database errors
	DBConnectionError
	DBNotConnectedError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError

	// Load errors
	LoadValidationError
	LoadStoreError

	// Notification and metrics errors
	NotifyError
	MetricsPushError

	// Query errors
	QueryError
)

// Is reports whether any error in err's chain is a *gn.Error with the
// given code.
func Is(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	for err != nil {
		if !errors.As(err, &gnErr) {
			return false
		}
		if gnErr.Code == code {
			return true
		}
		err = gnErr.Err
	}
	return false
}
