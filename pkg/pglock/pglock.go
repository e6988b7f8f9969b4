// Package pglock holds the postgres advisory lock keys shared by repositories.
package pglock

import "gorm.io/gorm"

// Admission serialises everything that reads or rewrites reservations for the
// shared room: admission decisions and owner id changes.
const Admission int64 = 0x6c6162

// XactLock takes key for the rest of tx. tx must be inside a transaction.
func XactLock(tx *gorm.DB, key int64) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error
}
