package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
)

// scanExecutor applies one scan type to a resolved scan context.
// Executors write inside the caller's transaction and never commit.
type scanExecutor interface {
	execute(ctx context.Context, sc *scanContext) (executed, error)
}

// executed describes the record an executor left behind.
type executed struct {
	record  *scan.Record
	created bool
}
