//go:build unit

package fake

import (
	"context"
	"strings"
	"sync"

	"datenight/internal/domain/event"
	"datenight/internal/usecase/shared"
)

// Enrollment is one recorded registry enrollment call.
type Enrollment struct {
	EventExternalID event.ExternalID
	Email           string
}

// Registry records enrollment calls and serves a configurable member
// list per event. Zero value is usable.
type Registry struct {
	mu         sync.Mutex
	EnrollErr  error
	ListErr    error
	members    map[event.ExternalID][]string
	enrollment []Enrollment
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[event.ExternalID][]string)}
}

func (r *Registry) SetMembers(externalID event.ExternalID, emails ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[externalID] = emails
}

func (r *Registry) Enroll(_ context.Context, externalEventID event.ExternalID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.EnrollErr != nil {
		return r.EnrollErr
	}
	for _, m := range r.members[externalEventID] {
		if strings.EqualFold(m, email) {
			return nil
		}
	}
	r.members[externalEventID] = append(r.members[externalEventID], email)
	r.enrollment = append(r.enrollment, Enrollment{EventExternalID: externalEventID, Email: email})
	return nil
}

func (r *Registry) ListMembers(_ context.Context, externalEventID event.ExternalID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	return append([]string(nil), r.members[externalEventID]...), nil
}

func (r *Registry) Enrollments() []Enrollment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Enrollment(nil), r.enrollment...)
}

// Notifier records published ledger changes.
type Notifier struct {
	mu      sync.Mutex
	Err     error
	changes []shared.LedgerChange
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) PublishChange(_ context.Context, change shared.LedgerChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.changes = append(n.changes, change)
	return nil
}

func (n *Notifier) Changes() []shared.LedgerChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]shared.LedgerChange(nil), n.changes...)
}
