package store

import (
	"database/sql"
)

// requireAffected maps a zero-rows-affected result to ErrNotFound, the
// store's null outcome for updates and deletes.
func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
