package user

import (
	"errors"
	"strings"
	"time"

	"datenight/internal/domain/event"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidRole  = errors.New("invalid role")
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string { return string(r) }

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// User is the account holder: identity plus the profile gender used to
// pick a seat pool. The credit balance lives on the same ledger document
// but is modeled separately (credit.Account).
type User struct {
	id            uuid.UUID
	email         string
	role          Role
	gender        event.Gender
	latestEventID *event.ExternalID
	createdAt     time.Time
}

func Reconstruct(id uuid.UUID, email string, role Role, gender event.Gender, latestEventID *event.ExternalID, createdAt time.Time) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	return &User{
		id:            id,
		email:         email,
		role:          role,
		gender:        gender,
		latestEventID: latestEventID,
		createdAt:     createdAt,
	}, nil
}

func (u *User) ID() uuid.UUID                    { return u.id }
func (u *User) Email() string                    { return u.email }
func (u *User) Role() Role                       { return u.role }
func (u *User) Gender() event.Gender             { return u.gender }
func (u *User) LatestEventID() *event.ExternalID { return u.latestEventID }
func (u *User) CreatedAt() time.Time             { return u.createdAt }
