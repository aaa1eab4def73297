package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
)

type cartRepo struct{ s *Store }

func (r *cartRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.CartLine, error) {
	lines := []entity.CartLine{}
	err := r.s.with(ctx, func(st *state) error {
		for _, l := range st.cart {
			if l.OwnerID == ownerID {
				lines = append(lines, l)
			}
		}
		return nil
	})
	return lines, err
}

func (r *cartRepo) GetLine(ctx context.Context, ownerID, lineID uuid.UUID) (*entity.CartLine, error) {
	var out *entity.CartLine
	err := r.s.with(ctx, func(st *state) error {
		for _, l := range st.cart {
			if l.ID == lineID && l.OwnerID == ownerID {
				l := l
				out = &l
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *cartRepo) FindMatching(ctx context.Context, ownerID uuid.UUID, productID, compositeUnitID *uuid.UUID) (*entity.CartLine, error) {
	var out *entity.CartLine
	err := r.s.with(ctx, func(st *state) error {
		for _, l := range st.cart {
			if l.OwnerID == ownerID && l.Matches(productID, compositeUnitID) {
				l := l
				out = &l
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *cartRepo) Create(ctx context.Context, line *entity.CartLine) error {
	return r.s.with(ctx, func(st *state) error {
		r.insert(st, line)
		return nil
	})
}

func (r *cartRepo) CreateBatch(ctx context.Context, lines []entity.CartLine) error {
	return r.s.with(ctx, func(st *state) error {
		for i := range lines {
			r.insert(st, &lines[i])
		}
		return nil
	})
}

func (r *cartRepo) insert(st *state, line *entity.CartLine) {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	r.s.stamp(&line.CreatedAt)
	line.UpdatedAt = line.CreatedAt
	st.cart = append(st.cart, *line)
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.s.with(ctx, func(st *state) error {
		for i := range st.cart {
			if st.cart[i].ID == lineID {
				st.cart[i].Quantity = quantity
				st.cart[i].UpdatedAt = r.s.now()
			}
		}
		return nil
	})
}

func (r *cartRepo) Delete(ctx context.Context, ownerID, lineID uuid.UUID) error {
	return r.s.with(ctx, func(st *state) error {
		st.cart = filterCart(st.cart, func(l entity.CartLine) bool {
			return !(l.ID == lineID && l.OwnerID == ownerID)
		})
		return nil
	})
}

func (r *cartRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return r.s.with(ctx, func(st *state) error {
		st.cart = filterCart(st.cart, func(l entity.CartLine) bool { return l.OwnerID != ownerID })
		return nil
	})
}

func (r *cartRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.with(ctx, func(st *state) error {
		for _, l := range st.cart {
			if l.OwnerID == ownerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// filterCart returns a fresh slice so snapshots taken earlier stay intact.
func filterCart(lines []entity.CartLine, keep func(entity.CartLine) bool) []entity.CartLine {
	out := make([]entity.CartLine, 0, len(lines))
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

type heldRepo struct{ s *Store }

func (r *heldRepo) Create(ctx context.Context, held *entity.HeldTransaction) error {
	return r.s.with(ctx, func(st *state) error {
		if held.ID == uuid.Nil {
			held.ID = uuid.New()
		}
		r.s.stamp(&held.HeldAt)
		held.UpdatedAt = held.HeldAt
		st.held[held.ID] = *held
		return nil
	})
}

func (r *heldRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldTransaction, error) {
	var out *entity.HeldTransaction
	err := r.s.with(ctx, func(st *state) error {
		if h, ok := st.held[id]; ok {
			out = &h
		}
		return nil
	})
	return out, err
}

func (r *heldRepo) Transition(ctx context.Context, id uuid.UUID, from, to enum.HeldStatus, at time.Time) (bool, error) {
	ok := false
	err := r.s.with(ctx, func(st *state) error {
		h, found := st.held[id]
		if !found || h.Status != from {
			return nil
		}
		h.Status = to
		h.UpdatedAt = at
		switch to {
		case enum.HeldStatusResumed:
			h.ResumedAt = &at
		case enum.HeldStatusDeleted:
			h.DeletedAt = &at
		}
		st.held[id] = h
		ok = true
		return nil
	})
	return ok, err
}

func (r *heldRepo) List(ctx context.Context, filter domainRepo.HeldFilter) ([]entity.HeldTransaction, error) {
	out := []entity.HeldTransaction{}
	err := r.s.with(ctx, func(st *state) error {
		for _, h := range st.held {
			if matchesHeld(h, filter) {
				out = append(out, h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].HeldAt.After(out[j].HeldAt) })
	return out, err
}

func (r *heldRepo) Count(ctx context.Context, filter domainRepo.HeldFilter) (int64, error) {
	var n int64
	err := r.s.with(ctx, func(st *state) error {
		for _, h := range st.held {
			if matchesHeld(h, filter) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func matchesHeld(h entity.HeldTransaction, f domainRepo.HeldFilter) bool {
	if f.Status != "" && h.Status != f.Status {
		return false
	}
	if f.TillID != nil && !sameID(h.TillID, *f.TillID) {
		return false
	}
	if f.OwnerID != nil && h.OwnerID != *f.OwnerID {
		return false
	}
	return true
}
