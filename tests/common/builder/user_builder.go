//go:build unit || e2e

package builder

import (
	"time"

	domevent "datenight/internal/domain/event"
	domuser "datenight/internal/domain/user"
	"datenight/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID            uuid.UUID
	Email         string
	Role          string
	Gender        string
	Balance       int
	LatestEventID *string
	CreatedAt     time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:        uuid.New(),
		Email:     "member@example.com",
		Role:      "member",
		Gender:    "female",
		Balance:   3,
		CreatedAt: time.Now(),
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *UserBuilder) BuildDomain() (*domuser.User, error) {
	role, err := domuser.ParseRole(b.Role)
	if err != nil {
		return nil, err
	}
	gender, err := domevent.ParseGender(b.Gender)
	if err != nil {
		return nil, err
	}
	var latest *domevent.ExternalID
	if b.LatestEventID != nil {
		id := domevent.ExternalID(*b.LatestEventID)
		latest = &id
	}
	return domuser.Reconstruct(b.ID, b.Email, role, gender, latest, b.CreatedAt)
}

func (b *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:            b.ID,
		Email:         b.Email,
		Role:          b.Role,
		Gender:        b.Gender,
		LatestEventID: b.LatestEventID,
		Balance:       b.Balance,
	}
}

// Fluent builder methods
func (b *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	b.ID = id
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.Role = role
	return b
}

func (b *UserBuilder) WithGender(gender string) *UserBuilder {
	b.Gender = gender
	return b
}

func (b *UserBuilder) WithBalance(balance int) *UserBuilder {
	b.Balance = balance
	return b
}

func (b *UserBuilder) WithLatestEventID(id string) *UserBuilder {
	b.LatestEventID = &id
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.Role = "admin"
	return b
}

func (b *UserBuilder) AsBroke() *UserBuilder {
	b.Balance = 0
	return b
}
