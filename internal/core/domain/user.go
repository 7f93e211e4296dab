package domain

// UserRole determines which actions a caller may dispatch.
type UserRole string

const (
	RoleNone      UserRole = "none"
	RoleLoggedOut UserRole = "logged_out"
	RoleEmployee  UserRole = "employee"
	RoleManager   UserRole = "manager"
)

// NullID marks a record that has not been persisted yet. Stores assign a real
// id on first save and never reuse one.
const NullID int64 = -1

// UserProfile models an account in the system. The password hash lives in the
// store next to the profile but never travels on this struct.
type UserProfile struct {
	ID        int64    `json:"id"`
	Role      UserRole `json:"role"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
}
