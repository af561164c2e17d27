package cart

import (
	"time"

	"agrocycle-be/internal/product"
)

type CartItem struct {
	ID        uint
	BuyerID   uint
	ProductID uint
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time

	Product product.Product
}

type AddToCartParams struct {
	BuyerID   uint
	ProductID uint
	Quantity  int
}

type UpdateCartParams struct {
	BuyerID   uint
	ProductID uint
	Quantity  int
}
