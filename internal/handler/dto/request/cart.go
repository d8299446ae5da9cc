package request

import (
	"datenight/internal/domain/payment"
)

// AddCartItemRequest carries the checkout's display price string ("$28",
// "$78.50"); the amount is normalized to cents on parse.
type AddCartItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Venue       string `json:"venue"`
	PackageType string `json:"package_type" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	NumDates    int    `json:"num_dates" binding:"required,min=1"`
}

func (r *AddCartItemRequest) ToDomain() (payment.LineItem, error) {
	priceCents, err := payment.ParsePriceCents(r.Price)
	if err != nil {
		return payment.LineItem{}, err
	}

	item := payment.LineItem{
		Title:       r.Title,
		Venue:       r.Venue,
		PackageType: r.PackageType,
		PriceCents:  priceCents,
		Quantity:    r.Quantity,
		NumDates:    r.NumDates,
	}
	if err := item.Validate(); err != nil {
		return payment.LineItem{}, err
	}
	return item, nil
}
