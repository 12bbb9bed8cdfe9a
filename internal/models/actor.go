package models

// Actor is the caller identity threaded through mutating operations.
type Actor struct {
	UserID  int64
	ClassID int64
	Role    UserRole
}
