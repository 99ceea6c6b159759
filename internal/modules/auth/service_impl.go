package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

const tokenTTL = 24 * time.Hour

type service struct {
	master MasterAdmin
	staff  staff.Service
	secret []byte
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(master MasterAdmin, members staff.Service, secret []byte) Service {
	return &service{master: master, staff: members, secret: secret, now: time.Now}
}

// HashPassword is used to turn a plaintext master password into a hash at startup.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, apperr.Validation("username and password are required")
	}

	if s.master.PasswordHash != "" && subtle.ConstantTimeCompare([]byte(username), []byte(s.master.Username)) == 1 {
		if err := bcrypt.CompareHashAndPassword([]byte(s.master.PasswordHash), []byte(password)); err != nil {
			return Session{}, apperr.ErrUnauthorized
		}
		return s.issue("", username, staff.RoleAdmin)
	}

	member, err := s.staff.FindByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return Session{}, apperr.ErrUnauthorized
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup %s: %w", username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperr.ErrUnauthorized
	}
	return s.issue(member.ID, member.Username, member.Role)
}

func (s *service) issue(memberID, username string, role staff.Role) (Session, error) {
	expirationTime := s.now().Add(tokenTTL)
	claims := &Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Id:        memberID,
			Subject:   username,
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, err
	}
	log.Printf("auth: %s logged in as %s", username, role)
	return Session{Token: tokenString, Username: username, Role: role, ExpiresAt: expirationTime.Unix()}, nil
}

func (s *service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.ErrUnauthorized
	}

	if claims.Id == "" {
		if s.master.PasswordHash == "" || claims.Subject != s.master.Username {
			return nil, apperr.ErrUnauthorized
		}
		return claims, nil
	}

	member, err := s.staff.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", claims.Subject, err)
	}
	if member.ID != claims.Id {
		return nil, apperr.ErrUnauthorized
	}
	claims.Role = member.Role
	return claims, nil
}
