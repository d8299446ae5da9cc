package response

import (
	"time"

	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/queries"

	"github.com/google/uuid"
)

type SignupResultResponse struct {
	Status  string `json:"status"`
	Balance int    `json:"balance"`
}

func FromSignupResult(r *commands.SignupResult) *SignupResultResponse {
	return &SignupResultResponse{
		Status:  string(r.Status),
		Balance: r.Balance,
	}
}

type CancelResultResponse struct {
	PreviousStatus string `json:"previousStatus"`
	Refunded       bool   `json:"refunded"`
	Balance        int    `json:"balance"`
}

func FromCancelResult(r *commands.CancelResult) *CancelResultResponse {
	return &CancelResultResponse{
		PreviousStatus: string(r.PreviousStatus),
		Refunded:       r.Refunded,
		Balance:        r.Balance,
	}
}

type SignupListResponse struct {
	EventID         uuid.UUID `json:"eventId"`
	EventExternalID string    `json:"eventExternalId"`
	EventTitle      string    `json:"eventTitle"`
	EventStartsAt   time.Time `json:"eventStartsAt"`
	Status          string    `json:"status"`
	JoinedAt        time.Time `json:"joinedAt"`
}

func FromSignupView(v *queries.SignupView) *SignupListResponse {
	return &SignupListResponse{
		EventID:         v.EventID,
		EventExternalID: v.EventExternalID,
		EventTitle:      v.EventTitle,
		EventStartsAt:   v.EventStartsAt,
		Status:          v.Status,
		JoinedAt:        v.JoinedAt,
	}
}

type CreditResponse struct {
	Balance int `json:"balance"`
}
