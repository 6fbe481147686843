package cart

import "errors"

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrUnknownProduct   = errors.New("the selected product id is invalid")
	ErrQuantityLimit    = errors.New("cart line quantity limit exceeded")
)
