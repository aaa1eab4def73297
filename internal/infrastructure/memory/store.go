// Package memory is an in-process storage driver implementing the domain
// repositories. It backs the "memory" storage driver and the service tests.
//
// A single mutex serialises every transaction and every standalone repository
// call. WithinTransaction snapshots the state and restores it if fn fails, so
// multi-step operations are all-or-nothing exactly as with the SQL driver.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
)

type txKey struct{}

type state struct {
	products     map[uuid.UUID]entity.Product
	composites   map[uuid.UUID]entity.CompositeUnit
	customers    map[uuid.UUID]entity.Customer
	loyalty      []entity.LoyaltyTransaction
	cart         []entity.CartLine
	held         map[uuid.UUID]entity.HeldTransaction
	sales        map[int64]entity.Sale
	saleItems    []entity.SaleItem
	salePayments []entity.SalePayment
	tills        map[uuid.UUID]entity.Till
	tillSessions map[uuid.UUID]entity.TillSession
	cashDrops    []entity.CashDrop
	closings     []entity.TillClosing
	voids        []entity.VoidRecord
	users        map[uuid.UUID]entity.User
	roles        map[string]entity.Role
	idempotency  map[string]entity.IdempotencyKey

	nextSaleID    int64
	nextItemID    int64
	nextPaymentID int64
}

func newState() *state {
	return &state{
		products:     make(map[uuid.UUID]entity.Product),
		composites:   make(map[uuid.UUID]entity.CompositeUnit),
		customers:    make(map[uuid.UUID]entity.Customer),
		held:         make(map[uuid.UUID]entity.HeldTransaction),
		sales:        make(map[int64]entity.Sale),
		tills:        make(map[uuid.UUID]entity.Till),
		tillSessions: make(map[uuid.UUID]entity.TillSession),
		users:        make(map[uuid.UUID]entity.User),
		roles:        make(map[string]entity.Role),
		idempotency:  make(map[string]entity.IdempotencyKey),
	}
}

// clone copies every collection. Entities are stored by value and never
// mutated in place, so copying the containers is enough.
func (st *state) clone() *state {
	c := *st
	c.products = cloneMap(st.products)
	c.composites = cloneMap(st.composites)
	c.customers = cloneMap(st.customers)
	c.held = cloneMap(st.held)
	c.sales = cloneMap(st.sales)
	c.tills = cloneMap(st.tills)
	c.tillSessions = cloneMap(st.tillSessions)
	c.users = cloneMap(st.users)
	c.roles = cloneMap(st.roles)
	c.idempotency = cloneMap(st.idempotency)
	c.loyalty = append([]entity.LoyaltyTransaction(nil), st.loyalty...)
	c.cart = append([]entity.CartLine(nil), st.cart...)
	c.saleItems = append([]entity.SaleItem(nil), st.saleItems...)
	c.salePayments = append([]entity.SalePayment(nil), st.salePayments...)
	c.cashDrops = append([]entity.CashDrop(nil), st.cashDrops...)
	c.closings = append([]entity.TillClosing(nil), st.closings...)
	c.voids = append([]entity.VoidRecord(nil), st.voids...)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store holds all in-memory tables.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// SetClock overrides the clock used for created/updated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// WithinTransaction implements domainRepo.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// with runs fn against the state, taking the lock unless ctx already holds it.
func (s *Store) with(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}

var _ domainRepo.Transactor = (*Store)(nil)

// Repositories returns every repository backed by this store.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Users:        &userRepo{s},
		Roles:        &roleRepo{s},
		Products:     &productRepo{s},
		Composites:   &compositeRepo{s},
		Customers:    &customerRepo{s},
		Loyalty:      &loyaltyRepo{s},
		Cart:         &cartRepo{s},
		Held:         &heldRepo{s},
		Sales:        &saleRepo{s},
		Tills:        &tillRepo{s},
		TillSessions: &tillSessionRepo{s},
		CashDrops:    &cashDropRepo{s},
		TillClosings: &tillClosingRepo{s},
		Voids:        &voidRepo{s},
		Idempotency:  &idempotencyRepo{s},
	}
}

// Repositories groups the store's repository implementations.
type Repositories struct {
	Users        domainRepo.UserRepository
	Roles        domainRepo.RoleRepository
	Products     domainRepo.ProductRepository
	Composites   domainRepo.CompositeUnitRepository
	Customers    domainRepo.CustomerRepository
	Loyalty      domainRepo.LoyaltyTransactionRepository
	Cart         domainRepo.CartRepository
	Held         domainRepo.HeldTransactionRepository
	Sales        domainRepo.SaleRepository
	Tills        domainRepo.TillRepository
	TillSessions domainRepo.TillSessionRepository
	CashDrops    domainRepo.CashDropRepository
	TillClosings domainRepo.TillClosingRepository
	Voids        domainRepo.VoidRecordRepository
	Idempotency  domainRepo.IdempotencyRepository
}

func inRange(t time.Time, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func inOptionalRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func sameID(a *uuid.UUID, b uuid.UUID) bool {
	return a != nil && *a == b
}
