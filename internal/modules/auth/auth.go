package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
)

// Service defines the interface for admin authentication.
type Service interface {
	// Login checks the master admin first, then staff accounts.
	Login(ctx context.Context, username, password string) (Session, error)

	// Verify parses a bearer token issued by Login. Staff tokens stop
	// verifying once the member is deleted.
	Verify(ctx context.Context, token string) (*Claims, error)
}

// MasterAdmin is the credential kept outside the staff table.
// An empty PasswordHash disables it.
type MasterAdmin struct {
	Username     string
	PasswordHash string
}

// Claims is the token payload. Id holds the staff member id and is empty for
// the master admin.
type Claims struct {
	Role staff.Role `json:"role"`
	jwt.StandardClaims
}

// Session is returned to the client after a successful login.
type Session struct {
	Token     string     `json:"token"`
	Username  string     `json:"username"`
	Role      staff.Role `json:"role"`
	ExpiresAt int64      `json:"expiresAt"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
