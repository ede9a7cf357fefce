package domain

// Identity is the externally assigned numeric handle that identifies a user
// across sessions. It is trusted as-is from the transport layer.
type Identity int64

type Role string

const (
	RoleGuest   Role = "guest"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

type User struct {
	Identity Identity
	Handle   string
	Role     Role
}

// CanSchedule reports whether the role may create groups and conferences.
func (r Role) CanSchedule() bool {
	return r == RoleTeacher || r == RoleAdmin
}
