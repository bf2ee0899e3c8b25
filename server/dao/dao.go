// Package dao provides data access objects for use in the drawlang server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories backing the server.
type Store interface {
	Users() UserRepository
	Programs() ProgramRepository
	Close() error
}

// ProgramRepository persists drawlang programs and their rendered output.
type ProgramRepository interface {
	Create(ctx context.Context, prog Program) (Program, error)
	GetByID(ctx context.Context, id uuid.UUID) (Program, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Program, error)
	GetAll(ctx context.Context) ([]Program, error)
	Update(ctx context.Context, id uuid.UUID, prog Program) (Program, error)
	Delete(ctx context.Context, id uuid.UUID) (Program, error)
	Close() error
}

// Program is a single saved drawlang source file along with the most recent
// PNG rendered from it.
type Program struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Source   []byte
	PNG      []byte
	Created  time.Time
	Modified time.Time
}

// UserRepository persists registered users.
type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)

	// Close closes the connection.
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID     // PK, NOT NULL
	Username       string        // UNIQUE, NOT NULL
	Password       string        // NOT NULL
	Email          *mail.Address // NOT NULL
	Role           Role          // NOT NULL
	Created        time.Time     // NOT NULL
	Modified       time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
	LastLoginTime  time.Time // NOT NULL
}
