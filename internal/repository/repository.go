package repository

import (
	"github.com/jmoiron/sqlx"
)

// pick returns exec when the caller is inside a transaction, db otherwise.
func pick(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}
