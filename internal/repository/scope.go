package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope restricts task queries to a single owner. The zero Scope applies no
// restriction and serves the open (no accounts) variant.
//
// Ownership is enforced here, at the query boundary, never as a post-fetch
// check: a task outside the scope is indistinguishable from one that does
// not exist.
type Scope struct {
	OwnerID uuid.UUID
}

// Owned returns a scope for the given owner.
func Owned(ownerID uuid.UUID) Scope { return Scope{OwnerID: ownerID} }

// Enforced reports whether the scope restricts queries to an owner.
func (s Scope) Enforced() bool { return s.OwnerID != uuid.Nil }

func (s Scope) apply(tx *gorm.DB) *gorm.DB {
	if s.Enforced() {
		return tx.Where("owner_id = ?", s.OwnerID)
	}
	return tx
}
