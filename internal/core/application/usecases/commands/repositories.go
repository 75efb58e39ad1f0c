// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	BundleRepoFactory interface {
		BundleRepository() ports.BundleRepository
	}

	ScanRecordRepoFactory interface {
		ScanRecordRepository() ports.ScanRecordRepository
	}

	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	TemplateRepoFactory interface {
		TemplateRepository() ports.TemplateRepository
	}

	WarehousingRepoFactory interface {
		WarehousingRepository() ports.WarehousingRepository
	}

	PatternRepoFactory interface {
		PatternRepository() ports.PatternRepository
	}

	// ScanUoW spans everything a scan submission writes in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Lock(ctx, tenant, orderID)
	//   // ... record the scan, update bundle and ledger, recompute progress
	//
	//   err = uow.Commit(ctx)
	ScanUoW interface {
		TxManager
		OrderRepoFactory
		BundleRepoFactory
		ScanRecordRepoFactory
		TemplateRepoFactory
		WarehousingRepoFactory
		PatternRepoFactory
	}

	ScanUoWFactory interface {
		Create() ScanUoW
	}

	// ProgressUoW manages transactions that only recompute order progress.
	ProgressUoW interface {
		TxManager
		OrderRepoFactory
		ScanRecordRepoFactory
	}

	ProgressUoWFactory interface {
		Create() ProgressUoW
	}

	// TrackingUoW manages the payroll ledger write that follows a scan.
	TrackingUoW interface {
		TxManager
		TrackingRepoFactory
	}

	TrackingUoWFactory interface {
		Create() TrackingUoW
	}

	// TemplateUoW manages template library writes.
	TemplateUoW interface {
		TxManager
		TemplateRepoFactory
	}

	TemplateUoWFactory interface {
		Create() TemplateUoW
	}

	// BundleUoW manages bundle-only writes.
	BundleUoW interface {
		TxManager
		BundleRepoFactory
	}

	BundleUoWFactory interface {
		Create() BundleUoW
	}
)
