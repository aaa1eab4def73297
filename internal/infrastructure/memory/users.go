package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return errors.New("email already registered")
			}
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		r.s.stamp(&user.CreatedAt)
		user.UpdatedAt = user.CreatedAt
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			u.Roles = nil
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				u.Roles = nil
				out = &u
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return nil
		}
		roles := make([]entity.Role, 0, len(u.Roles))
		for _, role := range u.Roles {
			if current, ok := st.roles[role.Name]; ok {
				role = current
			}
			roles = append(roles, role)
		}
		u.Roles = roles
		out = &u
		return nil
	})
	return out, err
}

type roleRepo struct{ s *Store }

func (r *roleRepo) Create(ctx context.Context, role *entity.Role) error {
	return r.s.with(ctx, func(st *state) error {
		if _, exists := st.roles[role.Name]; exists {
			return errors.New("role already exists")
		}
		role.ID = uint(len(st.roles) + 1)
		r.s.stamp(&role.CreatedAt)
		role.UpdatedAt = role.CreatedAt
		st.roles[role.Name] = *role
		return nil
	})
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	var out *entity.Role
	err := r.s.with(ctx, func(st *state) error {
		if role, ok := st.roles[name]; ok {
			out = &role
		}
		return nil
	})
	return out, err
}

type idempotencyRepo struct{ s *Store }

func idempotencyScope(ownerID uuid.UUID, route, key string) string {
	return ownerID.String() + "|" + route + "|" + key
}

func (r *idempotencyRepo) Find(ctx context.Context, ownerID uuid.UUID, route, key string) (*entity.IdempotencyKey, error) {
	var out *entity.IdempotencyKey
	err := r.s.with(ctx, func(st *state) error {
		if k, ok := st.idempotency[idempotencyScope(ownerID, route, key)]; ok {
			out = &k
		}
		return nil
	})
	return out, err
}

func (r *idempotencyRepo) Save(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.s.with(ctx, func(st *state) error {
		scope := idempotencyScope(ikey.OwnerID, ikey.Route, ikey.Key)
		if prev, ok := st.idempotency[scope]; ok {
			ikey.ID = prev.ID
		}
		if ikey.ID == uuid.Nil {
			ikey.ID = uuid.New()
		}
		r.s.stamp(&ikey.CreatedAt)
		st.idempotency[scope] = *ikey
		return nil
	})
}

func (r *idempotencyRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.s.with(ctx, func(st *state) error {
		for scope, k := range st.idempotency {
			if !k.LiveAt(now) {
				delete(st.idempotency, scope)
				n++
			}
		}
		return nil
	})
	return n, err
}
