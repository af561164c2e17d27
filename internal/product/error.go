package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("unit price must be positive")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrNotListingOwner = errors.New("listing belongs to another farmer")
)
