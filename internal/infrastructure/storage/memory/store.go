// Package memory provides an in-process implementation of every ledger
// repository. Transactions are serialised and rolled back by restoring a
// snapshot of the whole state.
package memory

import (
	"context"
	"sync"

	"aquaops/internal/core/id"
	"aquaops/internal/core/tx"
	"aquaops/internal/domain/audit"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/documents/expense"
	"aquaops/internal/domain/documents/miscellaneous"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/domain/registers/usage"
)

type usageKey struct {
	moderatorID id.ID
	day         string
}

type state struct {
	totals     *inventory.TotalBottles
	moderators map[id.ID]moderator.Moderator
	customers  map[id.ID]customer.Customer
	usage      map[usageKey]usage.BottleUsage
	deliveries map[id.ID]delivery.Delivery
	misc       map[id.ID]miscellaneous.Miscellaneous
	expenses   map[id.ID]expense.OtherExpense
	events     []ledger.Event
	audit      []audit.Entry
}

func newState() *state {
	return &state{
		moderators: make(map[id.ID]moderator.Moderator),
		customers:  make(map[id.ID]customer.Customer),
		usage:      make(map[usageKey]usage.BottleUsage),
		deliveries: make(map[id.ID]delivery.Delivery),
		misc:       make(map[id.ID]miscellaneous.Miscellaneous),
		expenses:   make(map[id.ID]expense.OtherExpense),
	}
}

func (s *state) clone() *state {
	c := newState()
	if s.totals != nil {
		tb := *s.totals
		c.totals = &tb
	}
	copyMap(c.moderators, s.moderators)
	copyMap(c.customers, s.customers)
	copyMap(c.usage, s.usage)
	copyMap(c.deliveries, s.deliveries)
	copyMap(c.misc, s.misc)
	copyMap(c.expenses, s.expenses)
	c.events = append([]ledger.Event(nil), s.events...)
	c.audit = append([]audit.Entry(nil), s.audit...)
	return c
}

func copyMap[K comparable, V any](dst, src map[K]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// Store holds the whole ledger in memory.
type Store struct {
	// txMu serialises transactions.
	txMu sync.Mutex

	mu sync.RWMutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

// TxManager implements tx.Manager on top of a Store.
type TxManager struct {
	store *Store
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// TxManager returns the transaction manager of the store.
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// RunInTransaction runs fn with exclusive access to the store.
// If fn returns an error every change it made is discarded.
// Nested calls join the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.RLock()
	snapshot := m.store.st.clone()
	m.store.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.mu.Lock()
		m.store.st = snapshot
		m.store.mu.Unlock()
		return err
	}
	return nil
}

// ReadOnly runs fn as a serialised transaction so it sees one consistent
// state. Writes are not rejected.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

// read runs fn under the read lock.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// write runs fn under the write lock.
func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Events returns every event published so far.
func (s *Store) Events() []ledger.Event {
	var out []ledger.Event
	s.read(func(st *state) {
		out = append(out, st.events...)
	})
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
