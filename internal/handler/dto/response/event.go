package response

import (
	"time"

	"datenight/internal/usecase/queries"

	"github.com/google/uuid"
)

type PoolResponse struct {
	Capacity  int `json:"capacity"`
	SignedUp  int `json:"signedUp"`
	Waitlist  int `json:"waitlist"`
	Remaining int `json:"remaining"`
}

type EventResponse struct {
	ID         uuid.UUID    `json:"id"`
	ExternalID string       `json:"externalId"`
	Title      string       `json:"title"`
	StartsAt   time.Time    `json:"startsAt"`
	Male       PoolResponse `json:"male"`
	Female     PoolResponse `json:"female"`
}

func FromEventView(v *queries.EventView) *EventResponse {
	return &EventResponse{
		ID:         v.ID,
		ExternalID: v.ExternalID,
		Title:      v.Title,
		StartsAt:   v.StartsAt,
		Male:       fromPoolView(v.Male),
		Female:     fromPoolView(v.Female),
	}
}

func fromPoolView(p queries.PoolView) PoolResponse {
	return PoolResponse{
		Capacity:  p.Capacity,
		SignedUp:  p.SignedUp,
		Waitlist:  p.Waitlist,
		Remaining: p.Remaining,
	}
}
