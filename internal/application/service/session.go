package service

import (
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
)

// Session is the authenticated cashier a POS operation runs for. Handlers build
// it from the access token and the session store; services never read ambient state.
type Session struct {
	OwnerID     uuid.UUID
	Name        string
	TillID      *uuid.UUID
	Roles       []string
	Permissions []string
}

// IsAdmin reports whether the caller holds the admin role
func (s *Session) IsAdmin() bool {
	for _, r := range s.Roles {
		if r == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// HasPermission reports whether the caller may perform the named action.
// Admins hold every permission.
func (s *Session) HasPermission(name string) bool {
	if s.IsAdmin() {
		return true
	}
	for _, p := range s.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
