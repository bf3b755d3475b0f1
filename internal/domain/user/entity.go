package user

import (
	"regexp"
	"strings"
	"time"

	"ponabri-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errs.New("invalid email address")
	ErrInvalidName  = errs.New("invalid name")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type User struct {
	id           uuid.UUID
	name         string
	email        string
	passwordHash string
	role         Role
	createdAt    time.Time
}

func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if !role.IsAdmin() && role != RoleUser {
		return nil, ErrInvalidRole
	}

	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
	}, nil
}

func ReconstructUser(id uuid.UUID, name, email, passwordHash string, role Role, createdAt time.Time) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
