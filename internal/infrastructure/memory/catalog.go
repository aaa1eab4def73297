package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

var errDuplicateCode = errors.New("duplicate code")

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.with(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.Code == product.Code {
				return errDuplicateCode
			}
		}
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		r.s.stamp(&product.CreatedAt)
		product.UpdatedAt = product.CreatedAt
		st.products[product.ID] = *product
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	out := []entity.Product{}
	err := r.s.with(ctx, func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				p := p
				out = &p
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.s.with(ctx, func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return errors.New("product not found")
		}
		product.UpdatedAt = r.s.now()
		st.products[product.ID] = *product
		return nil
	})
}

func (r *productRepo) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var items []entity.Product
	err := r.s.with(ctx, func(st *state) error {
		search := strings.ToLower(params.Search)
		for _, p := range st.products {
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search) {
				continue
			}
			if params.LowStock && !(p.TrackInventory && p.Quantity <= p.QuantityAlert) {
				continue
			}
			if params.ActiveOnly && !p.IsActive {
				continue
			}
			items = append(items, p)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return page(items, params.Pagination)
}

func (r *productRepo) AtomicDecrementQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	ok := false
	err := r.s.with(ctx, func(st *state) error {
		p, found := st.products[id]
		if !found || p.Quantity < amount {
			return nil
		}
		p.Quantity -= amount
		p.UpdatedAt = r.s.now()
		st.products[id] = p
		ok = true
		return nil
	})
	return ok, err
}

type compositeRepo struct{ s *Store }

func (r *compositeRepo) Create(ctx context.Context, unit *entity.CompositeUnit) error {
	return r.s.with(ctx, func(st *state) error {
		if unit.ID == uuid.Nil {
			unit.ID = uuid.New()
		}
		r.s.stamp(&unit.CreatedAt)
		unit.UpdatedAt = unit.CreatedAt
		stored := *unit
		stored.BaseProduct = nil
		st.composites[unit.ID] = stored
		return nil
	})
}

func (r *compositeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CompositeUnit, error) {
	var out *entity.CompositeUnit
	err := r.s.with(ctx, func(st *state) error {
		u, ok := st.composites[id]
		if !ok {
			return nil
		}
		if p, ok := st.products[u.BaseProductID]; ok {
			u.BaseProduct = &p
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *compositeRepo) ListByBaseProduct(ctx context.Context, productID uuid.UUID) ([]entity.CompositeUnit, error) {
	var out []entity.CompositeUnit
	err := r.s.with(ctx, func(st *state) error {
		for _, u := range st.composites {
			if u.BaseProductID == productID {
				out = append(out, u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BaseQuantityPerUnit < out[j].BaseQuantityPerUnit })
	return out, err
}

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	return r.s.with(ctx, func(st *state) error {
		if customer.ID == uuid.Nil {
			customer.ID = uuid.New()
		}
		r.s.stamp(&customer.CreatedAt)
		customer.UpdatedAt = customer.CreatedAt
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(ctx, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) GetWalkIn(ctx context.Context) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(ctx, func(st *state) error {
		for _, c := range st.customers {
			if c.IsWalkIn && (out == nil || c.CreatedAt.Before(out.CreatedAt)) {
				c := c
				out = &c
			}
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var items []entity.Customer
	err := r.s.with(ctx, func(st *state) error {
		q := strings.ToLower(search)
		for _, c := range st.customers {
			if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
				continue
			}
			items = append(items, c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return page(items, params)
}

func (r *customerRepo) AtomicDebitPoints(ctx context.Context, id uuid.UUID, points int64) (bool, error) {
	ok := false
	err := r.s.with(ctx, func(st *state) error {
		c, found := st.customers[id]
		if !found || c.LoyaltyPoints < points {
			return nil
		}
		c.LoyaltyPoints -= points
		st.customers[id] = c
		ok = true
		return nil
	})
	return ok, err
}

func (r *customerRepo) CreditPoints(ctx context.Context, id uuid.UUID, points int64) error {
	return r.s.with(ctx, func(st *state) error {
		c, found := st.customers[id]
		if !found {
			return nil
		}
		c.LoyaltyPoints += points
		st.customers[id] = c
		return nil
	})
}

type loyaltyRepo struct{ s *Store }

func (r *loyaltyRepo) Create(ctx context.Context, txn *entity.LoyaltyTransaction) error {
	return r.s.with(ctx, func(st *state) error {
		if txn.ID == uuid.Nil {
			txn.ID = uuid.New()
		}
		r.s.stamp(&txn.CreatedAt)
		st.loyalty = append(st.loyalty, *txn)
		return nil
	})
}

func (r *loyaltyRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.LoyaltyTransaction, int64, error) {
	var items []entity.LoyaltyTransaction
	err := r.s.with(ctx, func(st *state) error {
		for i := len(st.loyalty) - 1; i >= 0; i-- {
			if st.loyalty[i].CustomerID == customerID {
				items = append(items, st.loyalty[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(items, params)
}

// page applies offset pagination to an already filtered and sorted slice.
func page[T any](items []T, params *pagination.PaginationParams) ([]T, int64, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()
	start, end := params.Window(len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, int64(len(items)), nil
}
