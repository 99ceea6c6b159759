package staff

// Role grants access to the admin console.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Member is an admin console account.
type Member struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// AddRequest is the payload for creating a member.
type AddRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

// storedMember carries the hash through the local store, where Member's
// json tags would drop it.
type storedMember struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}
