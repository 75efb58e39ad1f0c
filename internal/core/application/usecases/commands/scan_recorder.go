package commands

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// recordRequest asks the recorder to make draft the active record of its key.
// check runs once the record to replace (or nil) is known and before any write.
type recordRequest struct {
	draft    scan.Params
	reassign bool
	check    func(existing *scan.Record) error
}

// recorded is the outcome of a record request.
type recorded struct {
	record   *scan.Record
	previous *scan.Outcome
	created  bool
}

// scanRecorder keeps at most one active record per scan key.
//
// A first scan inserts. A rescan by the owning operator refreshes quantity and
// timestamp. A rescan by anyone else is an operator conflict unless the caller
// reassigns. Two concurrent first scans race on the store's unique key; the
// loser is retried as a rescan.
type scanRecorder struct{}

func (scanRecorder) find(ctx context.Context, repo ports.ScanRecordRepository, key scan.Key) (*scan.Record, error) {
	rec, err := repo.FindByKey(ctx, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return rec, err
}

func (r scanRecorder) record(ctx context.Context, repo ports.ScanRecordRepository, req recordRequest) (recorded, error) {
	existing, err := r.find(ctx, repo, req.draft.Key)
	if err != nil {
		return recorded{}, err
	}

	if existing == nil {
		if err = req.check(nil); err != nil {
			return recorded{}, err
		}
		rec, newErr := scan.NewRecord(req.draft)
		if newErr != nil {
			return recorded{}, newErr
		}

		err = repo.Add(ctx, rec)
		if err == nil {
			return recorded{record: rec, created: true}, nil
		}
		if !errors.Is(err, ports.ErrDuplicateScan) {
			return recorded{}, err
		}

		if existing, err = r.find(ctx, repo, req.draft.Key); err != nil {
			return recorded{}, err
		}
		if existing == nil {
			return recorded{}, ports.ErrDuplicateScan
		}
	}

	return r.rescan(ctx, repo, existing, req)
}

func (scanRecorder) rescan(
	ctx context.Context,
	repo ports.ScanRecordRepository,
	existing *scan.Record,
	req recordRequest,
) (recorded, error) {
	op := req.draft.Operator
	owned := existing.Operator().Same(op)
	if !owned && !req.reassign {
		return recorded{}, existing.EnsureOwnedBy(op)
	}
	if err := req.check(existing); err != nil {
		return recorded{}, err
	}

	previous := existing.Outcome()
	var err error
	if owned {
		err = existing.Refresh(op, req.draft.Quantity, req.draft.Outcome, req.draft.ScannedAt)
	} else {
		err = existing.Reassign(op, req.draft.Quantity, req.draft.Outcome, req.draft.ScannedAt)
	}
	if err != nil {
		return recorded{}, err
	}

	if err = repo.Update(ctx, existing); err != nil {
		return recorded{}, err
	}
	return recorded{record: existing, previous: &previous}, nil
}
