package models

import (
	"github.com/google/uuid"
)

// Principal is the per-request caller descriptor every ledger operation takes.
// Not persisted; resolved from the session by the auth collaborator.
type Principal struct {
	ID       uuid.UUID
	Fullname string
	Email    string
	Role     string
	IsActive bool
}

// IsManager reports whether the principal holds the manager role.
func (p *Principal) IsManager() bool {
	return p != nil && p.Role == RoleManager
}

// CanAccess reports whether the principal may act on a resource owned by
// ownerID: managers always, users only on their own rows.
func (p *Principal) CanAccess(ownerID uuid.UUID) bool {
	if p == nil {
		return false
	}
	return p.IsManager() || p.ID == ownerID
}

// PrincipalFromSession decodes the session "user" blob (JSON round-trips
// through Redis as map[string]interface{}).
func PrincipalFromSession(v interface{}) (*Principal, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, false
	}
	p := &Principal{ID: id}
	p.Fullname, _ = m["fullname"].(string)
	p.Email, _ = m["email"].(string)
	p.Role, _ = m["role"].(string)
	if b, ok := m["is_active"].(bool); ok {
		p.IsActive = b
	}
	return p, true
}
