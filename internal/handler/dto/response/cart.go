package response

import (
	"datenight/internal/domain/payment"
	"datenight/internal/usecase/queries"
)

type CartItemResponse struct {
	Title       string `json:"title"`
	Venue       string `json:"venue,omitempty"`
	PackageType string `json:"packageType"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	NumDates    int    `json:"numDates"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	Subtotal   string             `json:"subtotal"`
	TotalDates int                `json:"totalDates"`
}

func FromCartView(v *queries.CartView) *CartResponse {
	items := make([]CartItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = CartItemResponse{
			Title:       it.Title,
			Venue:       it.Venue,
			PackageType: it.PackageType,
			Price:       payment.FormatPriceCents(it.PriceCents),
			Quantity:    it.Quantity,
			NumDates:    it.NumDates,
		}
	}
	return &CartResponse{
		Items:      items,
		Subtotal:   payment.FormatPriceCents(v.SubtotalCents),
		TotalDates: v.TotalDates,
	}
}
