package ports

import (
	"context"
)

// UnitOfWorkFactory hands each command its own UnitOfWork.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one command. A scan locks the
// order row, writes the scan, bundle, warehousing entry and recomputed order
// in one transaction; the payroll ledger write runs in a separate one.
//
// Repositories obtained after Begin are bound to the transaction;
// before Begin they run against the plain connection, which is how queries
// and the template resolver read.
type UnitOfWork interface {
	// Begin opens the transaction. Calling it twice keeps the first one.
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback fails when no transaction is open; handlers defer it after
	// Begin and ignore the error once Commit has succeeded.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	BundleRepository() BundleRepository
	ScanRecordRepository() ScanRecordRepository
	TrackingRepository() TrackingRepository
	TemplateRepository() TemplateRepository
	WarehousingRepository() WarehousingRepository
	PatternRepository() PatternRepository
}
