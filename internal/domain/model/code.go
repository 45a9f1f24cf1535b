package model

import (
	"time"

	"telegram-code-store/internal/domain"
)

// ProductType identifies one of the two fixed SKUs the store sells.
type ProductType string

const (
	ProductShortTerm ProductType = "VIP7D"
	ProductLongTerm  ProductType = "VIP30D"
)

// ParseProductType maps the short forms users type ("7d"/"30d") and the
// stored values to a ProductType.
func ParseProductType(s string) (ProductType, error) {
	switch s {
	case "7d", string(ProductShortTerm):
		return ProductShortTerm, nil
	case "30d", string(ProductLongTerm):
		return ProductLongTerm, nil
	}
	return "", domain.ErrUnknownProduct
}

func (t ProductType) Valid() bool {
	return t == ProductShortTerm || t == ProductLongTerm
}

// AllProductTypes lists every SKU in catalog order.
func AllProductTypes() []ProductType {
	return []ProductType{ProductShortTerm, ProductLongTerm}
}

// Code is a single redeemable unit of inventory. The payload is the secret
// handed to the buyer; it is never changed after creation, and Used flips
// from false to true exactly once when a sale commits.
type Code struct {
	ID        string
	Type      ProductType
	Payload   string
	Used      bool
	CreatedAt time.Time
}

// NewCode validates and constructs an unused code.
func NewCode(id string, typ ProductType, payload string) (*Code, error) {
	if !typ.Valid() {
		return nil, domain.ErrUnknownProduct
	}
	if payload == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Code{
		ID:        id,
		Type:      typ,
		Payload:   payload,
		CreatedAt: time.Now(),
	}, nil
}
