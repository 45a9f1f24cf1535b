package model

import (
	"time"

	"telegram-code-store/internal/domain"
)

// Sale is one row of the append-only sales ledger. Quantity always equals
// the number of codes consumed in the same transaction that inserted the
// row; sales are never updated or deleted.
type Sale struct {
	ID        string
	BuyerID   string
	Type      ProductType
	Quantity  int
	SellerID  string
	CreatedAt time.Time
}

// NewSale validates and constructs a ledger entry. The ID is assigned by
// the repository on insert when left empty.
func NewSale(buyerID string, typ ProductType, quantity int, sellerID string) (*Sale, error) {
	if !typ.Valid() {
		return nil, domain.ErrUnknownProduct
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if buyerID == "" || sellerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Sale{
		BuyerID:   buyerID,
		Type:      typ,
		Quantity:  quantity,
		SellerID:  sellerID,
		CreatedAt: time.Now(),
	}, nil
}
