package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
)

var errDuplicateReceipt = errors.New("duplicate receipt number")

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.s.with(ctx, func(st *state) error {
		st.nextSaleID++
		sale.ID = st.nextSaleID
		r.s.stamp(&sale.CreatedAt)
		sale.UpdatedAt = sale.CreatedAt
		stored := *sale
		stored.Items = nil
		stored.Payments = nil
		st.sales[sale.ID] = stored
		return nil
	})
}

func (r *saleRepo) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	return r.s.with(ctx, func(st *state) error {
		for i := range items {
			st.nextItemID++
			items[i].ID = st.nextItemID
			r.s.stamp(&items[i].CreatedAt)
			st.saleItems = append(st.saleItems, items[i])
		}
		return nil
	})
}

func (r *saleRepo) CreatePayments(ctx context.Context, payments []entity.SalePayment) error {
	return r.s.with(ctx, func(st *state) error {
		for i := range payments {
			st.nextPaymentID++
			payments[i].ID = st.nextPaymentID
			r.s.stamp(&payments[i].CreatedAt)
			st.salePayments = append(st.salePayments, payments[i])
		}
		return nil
	})
}

func (r *saleRepo) SetIdentifiers(ctx context.Context, id int64, transactionID, receiptNo string) error {
	return r.s.with(ctx, func(st *state) error {
		sale, ok := st.sales[id]
		if !ok {
			return errors.New("sale not found")
		}
		for otherID, other := range st.sales {
			if otherID != id && other.ReceiptNo != nil && *other.ReceiptNo == receiptNo {
				return errDuplicateReceipt
			}
		}
		sale.TransactionID = transactionID
		sale.ReceiptNo = &receiptNo
		sale.UpdatedAt = r.s.now()
		st.sales[id] = sale
		return nil
	})
}

func (r *saleRepo) UpdateLoyalty(ctx context.Context, id int64, pointsEarned int64) error {
	return r.s.with(ctx, func(st *state) error {
		sale, ok := st.sales[id]
		if !ok {
			return errors.New("sale not found")
		}
		sale.PointsEarned = pointsEarned
		st.sales[id] = sale
		return nil
	})
}

func (r *saleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.with(ctx, func(st *state) error {
		sale, ok := st.sales[id]
		if !ok {
			return nil
		}
		for _, item := range st.saleItems {
			if item.SaleID == id {
				sale.Items = append(sale.Items, item)
			}
		}
		for _, p := range st.salePayments {
			if p.SaleID == id {
				sale.Payments = append(sale.Payments, p)
			}
		}
		out = &sale
		return nil
	})
	return out, err
}

func (r *saleRepo) List(ctx context.Context, filter *domainRepo.SaleFilter) ([]entity.Sale, int64, error) {
	var items []entity.Sale
	err := r.s.with(ctx, func(st *state) error {
		for _, sale := range st.sales {
			if filter.TillID != nil && !sameID(sale.TillID, *filter.TillID) {
				continue
			}
			if filter.OwnerID != nil && sale.OwnerID != *filter.OwnerID {
				continue
			}
			if filter.CustomerID != nil && !sameID(sale.CustomerID, *filter.CustomerID) {
				continue
			}
			if !inOptionalRange(sale.CreatedAt, filter.From, filter.To) {
				continue
			}
			items = append(items, sale)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return page(items, filter.Pagination)
}

func (r *saleRepo) SumTotalsByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) (int64, error) {
	var sum int64
	err := r.s.with(ctx, func(st *state) error {
		for _, sale := range st.sales {
			if sameID(sale.TillID, tillID) && inRange(sale.CreatedAt, from, to) {
				sum += sale.TotalAmount
			}
		}
		return nil
	})
	return sum, err
}

func (r *saleRepo) IncrementReprint(ctx context.Context, id int64, limit int) (bool, error) {
	ok := false
	err := r.s.with(ctx, func(st *state) error {
		sale, found := st.sales[id]
		if !found || sale.ReprintCount >= limit {
			return nil
		}
		sale.ReprintCount++
		st.sales[id] = sale
		ok = true
		return nil
	})
	return ok, err
}

type voidRepo struct{ s *Store }

func (r *voidRepo) Create(ctx context.Context, record *entity.VoidRecord) error {
	return r.s.with(ctx, func(st *state) error {
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		r.s.stamp(&record.VoidedAt)
		st.voids = append(st.voids, *record)
		return nil
	})
}

func (r *voidRepo) List(ctx context.Context, filter *domainRepo.VoidFilter) ([]entity.VoidRecord, int64, error) {
	var items []entity.VoidRecord
	err := r.s.with(ctx, func(st *state) error {
		for i := len(st.voids) - 1; i >= 0; i-- {
			v := st.voids[i]
			if filter.VoidType != "" && v.VoidType != filter.VoidType {
				continue
			}
			if filter.OwnerID != nil && v.OwnerID != *filter.OwnerID {
				continue
			}
			if filter.TillID != nil && !sameID(v.TillID, *filter.TillID) {
				continue
			}
			if !inOptionalRange(v.VoidedAt, filter.From, filter.To) {
				continue
			}
			items = append(items, v)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(items, filter.Pagination)
}
