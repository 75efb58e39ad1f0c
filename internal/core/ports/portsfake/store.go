// Package portsfake provides an in-memory implementation of the ports for
// application tests. A unit of work copies the store on Begin and swaps the
// copy back on Commit, so rejected commands leave nothing behind.
package portsfake

import (
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/scan"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/tracking"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/warehousing"
)

// ErrNoTransaction mirrors the error of committing without Begin.
var ErrNoTransaction = errors.New("no active transaction")

type bundleRow struct {
	spec          bundle.Spec
	status        bundle.Status
	pendingRepair int
	scrapped      int
}

type scanRow struct {
	seq    int64
	params scan.Params
	result scan.Result
}

type trackingRow struct {
	seq    int64
	params tracking.Params
	state  tracking.State
}

type entryRow struct {
	ref   warehousing.Ref
	state warehousing.State
}

type tables struct {
	seq       int64
	orders    map[string]order.Snapshot
	bundles   map[string]bundleRow
	scans     map[string]scanRow
	trackings map[string]trackingRow
	templates map[string]*template.Library
	entries   map[string]entryRow
	patterns  map[string]bool
}

func newTables() tables {
	return tables{
		orders:    map[string]order.Snapshot{},
		bundles:   map[string]bundleRow{},
		scans:     map[string]scanRow{},
		trackings: map[string]trackingRow{},
		templates: map[string]*template.Library{},
		entries:   map[string]entryRow{},
		patterns:  map[string]bool{},
	}
}

func (t tables) clone() tables {
	templates := make(map[string]*template.Library, len(t.templates))
	for k, v := range t.templates {
		templates[k] = cloneLibrary(v)
	}
	return tables{
		seq:       t.seq,
		orders:    maps.Clone(t.orders),
		bundles:   maps.Clone(t.bundles),
		scans:     maps.Clone(t.scans),
		trackings: maps.Clone(t.trackings),
		templates: templates,
		entries:   maps.Clone(t.entries),
		patterns:  maps.Clone(t.patterns),
	}
}

func (t *tables) next() int64 {
	t.seq++
	return t.seq
}

// Store holds committed state shared by every unit of work it creates.
type Store struct {
	mu   sync.Mutex
	data tables

	staleUpdates  int
	trackingError error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Create starts a unit of work against the store.
func (s *Store) Create() *UnitOfWork {
	return &UnitOfWork{store: s}
}

// FailNextVersionChecks makes the next n compare-and-set updates report a stale version.
func (s *Store) FailNextVersionChecks(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staleUpdates = n
}

// FailTrackingWrites makes every tracking write return err. Nil restores normal behavior.
func (s *Store) FailTrackingWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackingError = err
}

// AddPattern records a style pattern file.
func (s *Store) AddPattern(tenant kernel.TenantID, styleNo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.patterns[patternKey(tenant, styleNo)] = true
}

// Order returns the committed state of an order.
func (s *Store) Order(id kernel.UUID) (*order.ProductionOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data.orders[id.String()]
	if !ok {
		return nil, false
	}
	o, err := order.RestoreProductionOrder(snap)
	return o, err == nil
}

// Bundle returns the committed state of a bundle.
func (s *Store) Bundle(id kernel.UUID) (*bundle.CuttingBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.bundles[id.String()]
	if !ok {
		return nil, false
	}
	b, err := row.restore()
	return b, err == nil
}

// Scans returns every committed scan record in insertion order.
func (s *Store) Scans() []*scan.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.sortedScans(func(scanRow) bool { return true })
}

// Trackings returns every committed tracking row in insertion order.
func (s *Store) Trackings() []*tracking.Tracking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.sortedTrackings(func(trackingRow) bool { return true })
}

// Entries returns every committed warehousing entry.
func (s *Store) Entries() []*warehousing.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*warehousing.Entry, 0, len(s.data.entries))
	for _, row := range s.data.entries {
		if e, err := warehousing.RestoreEntry(row.ref, row.state); err == nil {
			out = append(out, e)
		}
	}
	return out
}

// Template returns the committed state of a template.
func (s *Store) Template(id kernel.UUID) (*template.Library, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.templates[id.String()]
	if !ok {
		return nil, false
	}
	return cloneLibrary(l), true
}

func (t tables) sortedScans(keep func(scanRow) bool) []*scan.Record {
	rows := make([]scanRow, 0, len(t.scans))
	for _, row := range t.scans {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].params.ScannedAt.Equal(rows[j].params.ScannedAt) {
			return rows[i].params.ScannedAt.Before(rows[j].params.ScannedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]*scan.Record, 0, len(rows))
	for _, row := range rows {
		if r, err := scan.RestoreRecord(row.params, row.result); err == nil {
			out = append(out, r)
		}
	}
	return out
}

func (t tables) sortedTrackings(keep func(trackingRow) bool) []*tracking.Tracking {
	rows := slices.Collect(maps.Values(t.trackings))
	rows = slices.DeleteFunc(rows, func(r trackingRow) bool { return !keep(r) })
	slices.SortFunc(rows, func(a, b trackingRow) int { return int(a.seq - b.seq) })

	out := make([]*tracking.Tracking, 0, len(rows))
	for _, row := range rows {
		if tr, err := tracking.RestoreTracking(row.params, row.state); err == nil {
			out = append(out, tr)
		}
	}
	return out
}

func (r bundleRow) restore() (*bundle.CuttingBundle, error) {
	return bundle.RestoreCuttingBundle(r.spec, r.status, r.pendingRepair, r.scrapped)
}

func cloneLibrary(l *template.Library) *template.Library {
	cp, err := template.RestoreLibrary(l.ID(), l.Tenant(), l.Type(), l.StyleNo(), l.Name(),
		slices.Clone(l.Content()), l.Version(), l.Locked(), l.UpdatedAt())
	if err != nil {
		return l
	}
	return cp
}

func patternKey(tenant kernel.TenantID, styleNo string) string {
	return tenant.String() + "|" + styleNo
}
