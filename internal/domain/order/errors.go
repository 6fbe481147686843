package order

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidStatus       = errors.New("the selected status is invalid")
	ErrOrderCreationFailed = errors.New("order creation failed")
)

// CreationError is returned when placing an order fails after the cart was
// found non-empty. The transaction has been rolled back.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return ErrOrderCreationFailed.Error() + ": " + e.Err.Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrOrderCreationFailed) hold for every CreationError
func (e *CreationError) Is(target error) bool {
	return target == ErrOrderCreationFailed
}
