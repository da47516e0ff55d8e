package lifecycle

import (
	"context"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
)

// Store reconciles regional series into tier tables.
type Store interface {
	// Upsert inserts or updates rows of a validated frame with unique
	// keys and records the load, all in one transaction. Missing
	// measure columns are added first. Any error leaves the store
	// unchanged.
	Upsert(
		ctx context.Context,
		tier partition.Tier,
		f *frame.Frame,
		log schema.LoadLog,
	) error

	// Close releases the store.
	Close() error
}
