package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate is a gorm scope taking a row-level lock on engines with
// concurrent writers, so read-then-write sections inside a transaction
// serialize against each other. SQLite allows a single writer at a time and
// has no FOR UPDATE grammar, so the scope is a no-op there.
func LockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
