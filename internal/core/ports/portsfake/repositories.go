package portsfake

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/tracking"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/warehousing"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// ErrDuplicate is returned when a seeded row collides with an existing one.
var ErrDuplicate = errors.New("duplicate row")

type orderRepo struct{ u *UnitOfWork }

func (r orderRepo) Add(_ context.Context, aggregate *order.ProductionOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		if _, ok := t.orders[aggregate.ID().String()]; ok {
			return ErrDuplicate
		}
		t.orders[aggregate.ID().String()] = aggregate.Snapshot()
		return nil
	})
}

func (r orderRepo) Get(_ context.Context, tenant kernel.TenantID, id kernel.UUID) (*order.ProductionOrder, error) {
	var snap order.Snapshot
	err := r.u.view(func(t *tables) error {
		s, ok := t.orders[id.String()]
		if !ok || s.Tenant != tenant {
			return errs.NewObjectNotFoundError("order", id.String())
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order.RestoreProductionOrder(snap)
}

func (r orderRepo) GetByOrderNo(_ context.Context, tenant kernel.TenantID, orderNo string) (*order.ProductionOrder, error) {
	var snap *order.Snapshot
	_ = r.u.view(func(t *tables) error {
		for _, s := range t.orders {
			if s.Tenant == tenant && s.OrderNo == orderNo {
				snap = &s
				return nil
			}
		}
		return nil
	})
	if snap == nil {
		return nil, errs.NewObjectNotFoundError("order", orderNo)
	}
	return order.RestoreProductionOrder(*snap)
}

func (r orderRepo) Lock(ctx context.Context, tenant kernel.TenantID, id kernel.UUID) (*order.ProductionOrder, error) {
	return r.Get(ctx, tenant, id)
}

func (r orderRepo) LockByOrderNo(ctx context.Context, tenant kernel.TenantID, orderNo string) (*order.ProductionOrder, error) {
	return r.GetByOrderNo(ctx, tenant, orderNo)
}

func (r orderRepo) UpdateIfVersion(_ context.Context, aggregate *order.ProductionOrder, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if r.u.takeStale() {
		return ports.ErrStaleVersion
	}
	return r.u.view(func(t *tables) error {
		stored, ok := t.orders[aggregate.ID().String()]
		if !ok {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		if stored.Version != expectedVersion {
			return ports.ErrStaleVersion
		}
		t.orders[aggregate.ID().String()] = aggregate.Snapshot()
		return nil
	})
}

func (r orderRepo) ListScannable(_ context.Context) ([]*order.ProductionOrder, error) {
	var snaps []order.Snapshot
	_ = r.u.view(func(t *tables) error {
		for _, s := range t.orders {
			if order.CanScan(s.Status) {
				snaps = append(snaps, s)
			}
		}
		return nil
	})
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].OrderNo < snaps[j].OrderNo })

	out := make([]*order.ProductionOrder, 0, len(snaps))
	for _, s := range snaps {
		o, err := order.RestoreProductionOrder(s)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

type bundleRepo struct{ u *UnitOfWork }

func toBundleRow(b *bundle.CuttingBundle) bundleRow {
	return bundleRow{spec: b.Spec(), status: b.Status(), pendingRepair: b.PendingRepairQty(), scrapped: b.ScrappedQty()}
}

func (r bundleRepo) Add(_ context.Context, aggregate *bundle.CuttingBundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		for _, row := range t.bundles {
			if row.spec.Tenant == aggregate.Tenant() && row.spec.QRCode == aggregate.QRCode() {
				return ErrDuplicate
			}
		}
		t.bundles[aggregate.ID().String()] = toBundleRow(aggregate)
		return nil
	})
}

func (r bundleRepo) Update(_ context.Context, aggregate *bundle.CuttingBundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		if _, ok := t.bundles[aggregate.ID().String()]; !ok {
			return errs.NewObjectNotFoundError("bundle", aggregate.ID().String())
		}
		t.bundles[aggregate.ID().String()] = toBundleRow(aggregate)
		return nil
	})
}

func (r bundleRepo) GetByQRCode(_ context.Context, tenant kernel.TenantID, qrCode string) (*bundle.CuttingBundle, error) {
	var found *bundleRow
	_ = r.u.view(func(t *tables) error {
		for _, row := range t.bundles {
			if row.spec.Tenant == tenant && row.spec.QRCode == qrCode {
				found = &row
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("bundle", qrCode)
	}
	return found.restore()
}

type scanRepo struct{ u *UnitOfWork }

func keyString(k scan.Key) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", k.Tenant, k.OrderID, k.BundleKey, k.ScanType, k.ProcessName, k.QualityStage)
}

func (r scanRepo) Add(_ context.Context, record *scan.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		for _, row := range t.scans {
			if keyString(row.params.Key) == keyString(record.Key()) {
				return ports.ErrDuplicateScan
			}
		}
		t.scans[record.ID().String()] = scanRow{seq: t.next(), params: record.Params(), result: record.Result()}
		return nil
	})
}

func (r scanRepo) Update(_ context.Context, record *scan.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		row, ok := t.scans[record.ID().String()]
		if !ok {
			return errs.NewObjectNotFoundError("scan record", record.ID().String())
		}
		row.params = record.Params()
		row.result = record.Result()
		t.scans[record.ID().String()] = row
		return nil
	})
}

func (r scanRepo) FindByKey(_ context.Context, key scan.Key) (*scan.Record, error) {
	var records []*scan.Record
	_ = r.u.view(func(t *tables) error {
		records = t.sortedScans(func(row scanRow) bool { return keyString(row.params.Key) == keyString(key) })
		return nil
	})
	if len(records) == 0 {
		return nil, errs.NewObjectNotFoundError("scan record", keyString(key))
	}
	return records[0], nil
}

func (r scanRepo) SumQuantity(_ context.Context, f ports.ScanQuantityFilter) (int, error) {
	total := 0
	err := r.u.view(func(t *tables) error {
		for id, row := range t.scans {
			k := row.params.Key
			switch {
			case row.result != scan.Success,
				k.Tenant != f.Tenant,
				!k.OrderID.IsEqual(f.OrderID),
				k.ScanType != f.ScanType,
				k.ProcessName != f.ProcessName,
				k.QualityStage != f.QualityStage,
				f.BundleKey != "" && k.BundleKey != f.BundleKey,
				f.ExcludeID != nil && id == f.ExcludeID.String():
				continue
			}
			total += row.params.Quantity
		}
		return nil
	})
	return total, err
}

func (r scanRepo) ListByOrder(_ context.Context, tenant kernel.TenantID, orderID kernel.UUID) ([]*scan.Record, error) {
	var out []*scan.Record
	err := r.u.view(func(t *tables) error {
		out = t.sortedScans(func(row scanRow) bool {
			return row.result == scan.Success && row.params.Key.Tenant == tenant && row.params.Key.OrderID.IsEqual(orderID)
		})
		return nil
	})
	return out, err
}

func (r scanRepo) ListByBundle(
	_ context.Context,
	tenant kernel.TenantID,
	orderID kernel.UUID,
	bundleKey string,
) ([]*scan.Record, error) {
	var out []*scan.Record
	err := r.u.view(func(t *tables) error {
		out = t.sortedScans(func(row scanRow) bool {
			k := row.params.Key
			return row.result == scan.Success && k.Tenant == tenant && k.OrderID.IsEqual(orderID) && k.BundleKey == bundleKey
		})
		return nil
	})
	return out, err
}

type trackingRepo struct{ u *UnitOfWork }

func trackingKey(p tracking.Params) string {
	return p.Tenant.String() + "|" + p.BundleID.String() + "|" + p.ProcessName
}

func (r trackingRepo) AddMissing(_ context.Context, rows []*tracking.Tracking) error {
	if err := r.u.trackingFailure(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		existing := map[string]bool{}
		for _, row := range t.trackings {
			existing[trackingKey(row.params)] = true
		}
		for _, tr := range rows {
			if err := tr.Validate(); err != nil {
				return err
			}
			if existing[trackingKey(tr.Params())] {
				continue
			}
			existing[trackingKey(tr.Params())] = true
			t.trackings[tr.ID().String()] = trackingRow{seq: t.next(), params: tr.Params(), state: tr.State()}
		}
		return nil
	})
}

func (r trackingRepo) Update(_ context.Context, row *tracking.Tracking) error {
	if err := r.u.trackingFailure(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		stored, ok := t.trackings[row.ID().String()]
		if !ok {
			return errs.NewObjectNotFoundError("tracking", row.ID().String())
		}
		stored.state = row.State()
		t.trackings[row.ID().String()] = stored
		return nil
	})
}

func (r trackingRepo) ListByBundle(_ context.Context, tenant kernel.TenantID, bundleID kernel.UUID) ([]*tracking.Tracking, error) {
	var out []*tracking.Tracking
	err := r.u.view(func(t *tables) error {
		out = t.sortedTrackings(func(row trackingRow) bool {
			return row.params.Tenant == tenant && row.params.BundleID.IsEqual(bundleID)
		})
		return nil
	})
	return out, err
}

type templateRepo struct{ u *UnitOfWork }

func (r templateRepo) FindActive(
	_ context.Context,
	tenant kernel.TenantID,
	kind template.Type,
	styleNo string,
) (*template.Library, error) {
	var found *template.Library
	_ = r.u.view(func(t *tables) error {
		for _, l := range t.templates {
			if l.Tenant() == tenant && l.Type() == kind && l.StyleNo() == styleNo {
				found = cloneLibrary(l)
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("template", fmt.Sprintf("%s/%s/%s", tenant, kind, styleNo))
	}
	return found, nil
}

func (r templateRepo) Add(_ context.Context, aggregate *template.Library) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		for _, l := range t.templates {
			if l.Tenant() == aggregate.Tenant() && l.Type() == aggregate.Type() && l.StyleNo() == aggregate.StyleNo() {
				return ErrDuplicate
			}
		}
		t.templates[aggregate.ID().String()] = cloneLibrary(aggregate)
		return nil
	})
}

func (r templateRepo) Update(_ context.Context, aggregate *template.Library) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.u.view(func(t *tables) error {
		if _, ok := t.templates[aggregate.ID().String()]; !ok {
			return errs.NewObjectNotFoundError("template", aggregate.ID().String())
		}
		t.templates[aggregate.ID().String()] = cloneLibrary(aggregate)
		return nil
	})
}

func (r templateRepo) Get(_ context.Context, id kernel.UUID) (*template.Library, error) {
	var found *template.Library
	_ = r.u.view(func(t *tables) error {
		if l, ok := t.templates[id.String()]; ok {
			found = cloneLibrary(l)
		}
		return nil
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("template", id.String())
	}
	return found, nil
}

type warehousingRepo struct{ u *UnitOfWork }

func entryKey(tenant kernel.TenantID, orderID kernel.UUID, bundleKey string) string {
	return tenant.String() + "|" + orderID.String() + "|" + bundleKey
}

func (r warehousingRepo) Add(_ context.Context, entry *warehousing.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	ref := entry.Ref()
	return r.u.view(func(t *tables) error {
		key := entryKey(ref.Tenant, ref.OrderID, ref.BundleKey)
		if _, ok := t.entries[key]; ok {
			return ErrDuplicate
		}
		t.entries[key] = entryRow{ref: ref, state: entry.State()}
		return nil
	})
}

func (r warehousingRepo) Update(_ context.Context, entry *warehousing.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	ref := entry.Ref()
	return r.u.view(func(t *tables) error {
		key := entryKey(ref.Tenant, ref.OrderID, ref.BundleKey)
		if _, ok := t.entries[key]; !ok {
			return errs.NewObjectNotFoundError("warehousing", key)
		}
		t.entries[key] = entryRow{ref: ref, state: entry.State()}
		return nil
	})
}

func (r warehousingRepo) FindByBundleKey(
	_ context.Context,
	tenant kernel.TenantID,
	orderID kernel.UUID,
	bundleKey string,
) (*warehousing.Entry, error) {
	key := entryKey(tenant, orderID, bundleKey)
	var row *entryRow
	_ = r.u.view(func(t *tables) error {
		if e, ok := t.entries[key]; ok {
			row = &e
		}
		return nil
	})
	if row == nil {
		return nil, errs.NewObjectNotFoundError("warehousing", key)
	}
	return warehousing.RestoreEntry(row.ref, row.state)
}

type patternRepo struct{ u *UnitOfWork }

func (r patternRepo) HasPattern(_ context.Context, tenant kernel.TenantID, styleNo string) (bool, error) {
	found := false
	_ = r.u.view(func(t *tables) error {
		found = t.patterns[patternKey(tenant, styleNo)]
		return nil
	})
	return found, nil
}
