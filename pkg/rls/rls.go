// Package rls sets the session variable the Postgres row-level-security
// policies key on. The service connects as the table owner, which bypasses
// RLS, so ownership is enforced in the service layer on every user-scoped
// read and write; the policies bind direct SQL access through per-user
// roles. The finalize transaction still sets the variable so its statements
// stay owner-scoped even when the service runs under a non-owner role.
package rls

import (
	"gorm.io/gorm"
)

func WithUser(tx *gorm.DB, userID string) error {
	return tx.Exec(
		"SET LOCAL app.current_user_id = ?",
		userID,
	).Error
}
