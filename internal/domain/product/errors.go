package product

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrSKUTaken         = errors.New("the sku has already been taken")
)

// UnknownReferenceError reports ids in a request that do not exist
type UnknownReferenceError struct {
	Field string
	IDs   []uint
}

func (e *UnknownReferenceError) Error() string {
	return "the selected " + e.Field + " is invalid"
}
