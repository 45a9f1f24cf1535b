package model

import "telegram-code-store/internal/domain"

// Product is a static catalog entry. Prices are integers in the smallest
// currency unit (IDR) so revenue sums never touch floating point.
type Product struct {
	Type      ProductType
	Title     string
	Period    string
	UnitPrice int64
}

// Catalog is the read-only product catalog keyed by type.
type Catalog map[ProductType]Product

// DefaultCatalog returns the two SKUs the store ships with.
func DefaultCatalog() Catalog {
	return Catalog{
		ProductShortTerm: {
			Type:      ProductShortTerm,
			Title:     "Redfinger VIP 7 Day Android 12",
			Period:    "7 Day",
			UnitPrice: 19_300,
		},
		ProductLongTerm: {
			Type:      ProductLongTerm,
			Title:     "Redfinger VIP 30 Day Android 12",
			Period:    "30 Day",
			UnitPrice: 61_000,
		},
	}
}

// Lookup returns the catalog entry for a type.
func (c Catalog) Lookup(typ ProductType) (Product, error) {
	p, ok := c[typ]
	if !ok {
		return Product{}, domain.ErrUnknownProduct
	}
	return p, nil
}

// Quote computes the total price for qty units of a type.
func (c Catalog) Quote(typ ProductType, qty int) (int64, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	p, err := c.Lookup(typ)
	if err != nil {
		return 0, err
	}
	return p.UnitPrice * int64(qty), nil
}
