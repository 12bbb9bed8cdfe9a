package models

// UserRole distinguishes teachers from students.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is synced from the external auth provider and never created by the API.
type User struct {
	ID             int64    `db:"id" json:"id"`
	ExternalAuthID string   `db:"external_auth_id" json:"-"`
	Name           string   `db:"name" json:"name"`
	Email          string   `db:"email" json:"email"`
	Role           UserRole `db:"role" json:"role"`
}
