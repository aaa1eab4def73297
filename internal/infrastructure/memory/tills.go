package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

type tillRepo struct{ s *Store }

func (r *tillRepo) Create(ctx context.Context, till *entity.Till) error {
	return r.s.with(ctx, func(st *state) error {
		for _, t := range st.tills {
			if t.Code == till.Code {
				return errDuplicateCode
			}
		}
		if till.ID == uuid.Nil {
			till.ID = uuid.New()
		}
		r.s.stamp(&till.CreatedAt)
		till.UpdatedAt = till.CreatedAt
		st.tills[till.ID] = *till
		return nil
	})
}

func (r *tillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Till, error) {
	var out *entity.Till
	err := r.s.with(ctx, func(st *state) error {
		if t, ok := st.tills[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no extra locking: transactions are already serialised.
func (r *tillRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Till, error) {
	return r.GetByID(ctx, id)
}

func (r *tillRepo) Update(ctx context.Context, till *entity.Till) error {
	return r.s.with(ctx, func(st *state) error {
		if _, ok := st.tills[till.ID]; !ok {
			return errors.New("till not found")
		}
		till.UpdatedAt = r.s.now()
		st.tills[till.ID] = *till
		return nil
	})
}

func (r *tillRepo) List(ctx context.Context) ([]entity.Till, error) {
	out := []entity.Till{}
	err := r.s.with(ctx, func(st *state) error {
		for _, t := range st.tills {
			out = append(out, t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

type tillSessionRepo struct{ s *Store }

func (r *tillSessionRepo) Create(ctx context.Context, session *entity.TillSession) error {
	return r.s.with(ctx, func(st *state) error {
		if session.ID == uuid.Nil {
			session.ID = uuid.New()
		}
		r.s.stamp(&session.OpenedAt)
		st.tillSessions[session.ID] = *session
		return nil
	})
}

func (r *tillSessionRepo) GetOpen(ctx context.Context, tillID uuid.UUID) (*entity.TillSession, error) {
	return r.latest(ctx, func(s entity.TillSession) bool {
		return s.TillID == tillID && s.ClosedAt == nil
	})
}

func (r *tillSessionRepo) LatestOpenedBetween(ctx context.Context, tillID uuid.UUID, from, to time.Time) (*entity.TillSession, error) {
	return r.latest(ctx, func(s entity.TillSession) bool {
		return s.TillID == tillID && inRange(s.OpenedAt, from, to)
	})
}

func (r *tillSessionRepo) latest(ctx context.Context, match func(entity.TillSession) bool) (*entity.TillSession, error) {
	var out *entity.TillSession
	err := r.s.with(ctx, func(st *state) error {
		for _, s := range st.tillSessions {
			if match(s) && (out == nil || s.OpenedAt.After(out.OpenedAt)) {
				s := s
				out = &s
			}
		}
		return nil
	})
	return out, err
}

func (r *tillSessionRepo) Close(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.s.with(ctx, func(st *state) error {
		s, ok := st.tillSessions[id]
		if !ok || s.ClosedAt != nil {
			return nil
		}
		s.ClosedAt = &at
		st.tillSessions[id] = s
		return nil
	})
}

type cashDropRepo struct{ s *Store }

func (r *cashDropRepo) Create(ctx context.Context, drop *entity.CashDrop) error {
	return r.s.with(ctx, func(st *state) error {
		if drop.ID == uuid.Nil {
			drop.ID = uuid.New()
		}
		r.s.stamp(&drop.CreatedAt)
		st.cashDrops = append(st.cashDrops, *drop)
		return nil
	})
}

func (r *cashDropRepo) SumByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) (int64, error) {
	var sum int64
	err := r.s.with(ctx, func(st *state) error {
		for _, d := range st.cashDrops {
			if d.TillID == tillID && inRange(d.CreatedAt, from, to) {
				sum += d.Amount
			}
		}
		return nil
	})
	return sum, err
}

func (r *cashDropRepo) ListByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) ([]entity.CashDrop, error) {
	out := []entity.CashDrop{}
	err := r.s.with(ctx, func(st *state) error {
		for _, d := range st.cashDrops {
			if d.TillID == tillID && inRange(d.CreatedAt, from, to) {
				out = append(out, d)
			}
		}
		return nil
	})
	return out, err
}

type tillClosingRepo struct{ s *Store }

func (r *tillClosingRepo) Create(ctx context.Context, closing *entity.TillClosing) error {
	return r.s.with(ctx, func(st *state) error {
		if closing.ID == uuid.Nil {
			closing.ID = uuid.New()
		}
		r.s.stamp(&closing.ClosedAt)
		st.closings = append(st.closings, *closing)
		return nil
	})
}

func (r *tillClosingRepo) ListByTill(ctx context.Context, tillID uuid.UUID, params *pagination.PaginationParams) ([]entity.TillClosing, int64, error) {
	var items []entity.TillClosing
	err := r.s.with(ctx, func(st *state) error {
		for i := len(st.closings) - 1; i >= 0; i-- {
			if st.closings[i].TillID == tillID {
				items = append(items, st.closings[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(items, params)
}
