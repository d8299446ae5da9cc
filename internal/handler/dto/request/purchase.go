package request

type CompletePurchaseRequest struct {
	ExternalPaymentID string  `json:"external_payment_id" binding:"required"`
	AmountCharged     int64   `json:"amount_charged_cents" binding:"min=0"`
	DiscountCode      *string `json:"discount_code,omitempty"`
}
