package response

import (
	"datenight/internal/usecase/commands"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	PaymentID           uuid.UUID `json:"paymentId"`
	TotalDatesPurchased int       `json:"totalDatesPurchased"`
	Balance             int       `json:"balance"`
	Replayed            bool      `json:"replayed"`
}

func FromPurchaseResult(r *commands.PurchaseResult) *PurchaseResponse {
	return &PurchaseResponse{
		PaymentID:           r.PaymentID,
		TotalDatesPurchased: r.CreditsAdded,
		Balance:             r.Balance,
		Replayed:            r.Replayed,
	}
}
