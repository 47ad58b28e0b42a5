package domain

// Role enumerates account roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAgent     Role = "agent"
	RoleRequester Role = "requester"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleRequester:
		return true
	}
	return false
}

// ValidRegistrationRole reports whether the role may be chosen through
// registration. Admin accounts are only created by the bootstrap step.
func ValidRegistrationRole(r Role) bool {
	return r == RoleAgent || r == RoleRequester
}

// User is an account that can sign in: the bootstrap admin, support agents
// and requesters. Username and role are immutable after creation.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}

// UserRef is the {id, username} projection returned by role listings.
type UserRef struct {
	ID       int64
	Username string
}
