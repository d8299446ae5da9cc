//go:build unit || e2e

package builder

import (
	dompayment "datenight/internal/domain/payment"
	"datenight/internal/usecase/queries"
)

type CartBuilder struct {
	Items []dompayment.LineItem
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{
		Items: []dompayment.LineItem{
			{
				Title:       "Single Date Package",
				Venue:       "Downtown Wine Bar",
				PackageType: "single",
				PriceCents:  2800,
				Quantity:    1,
				NumDates:    1,
			},
		},
	}
}

func (b *CartBuilder) With(mutate func(*CartBuilder)) *CartBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CartBuilder) BuildDomain() (dompayment.Cart, error) {
	return dompayment.NewCart(b.Items)
}

func (b *CartBuilder) BuildView() *queries.CartView {
	view := &queries.CartView{}
	for _, it := range b.Items {
		view.Items = append(view.Items, queries.CartItemView{
			Title:       it.Title,
			Venue:       it.Venue,
			PackageType: it.PackageType,
			PriceCents:  it.PriceCents,
			Quantity:    it.Quantity,
			NumDates:    it.NumDates,
		})
		view.SubtotalCents += it.PriceCents * int64(it.Quantity)
		view.TotalDates += it.Quantity * it.NumDates
	}
	return view
}

// Fluent builder methods
func (b *CartBuilder) WithItems(items ...dompayment.LineItem) *CartBuilder {
	b.Items = items
	return b
}

func (b *CartBuilder) AddItem(item dompayment.LineItem) *CartBuilder {
	b.Items = append(b.Items, item)
	return b
}

func (b *CartBuilder) Empty() *CartBuilder {
	b.Items = nil
	return b
}

// AsMixedPackages is the two singles plus one triple-date bundle checkout,
// worth five date credits in total.
func (b *CartBuilder) AsMixedPackages() *CartBuilder {
	b.Items = []dompayment.LineItem{
		{
			Title:       "Single Date Package",
			Venue:       "Downtown Wine Bar",
			PackageType: "single",
			PriceCents:  2800,
			Quantity:    2,
			NumDates:    1,
		},
		{
			Title:       "Three Date Bundle",
			Venue:       "Rooftop Lounge",
			PackageType: "bundle",
			PriceCents:  7800,
			Quantity:    1,
			NumDates:    3,
		},
	}
	return b
}
