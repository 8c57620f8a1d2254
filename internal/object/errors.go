package object

import "errors"

var (
	ErrNotFound      = errors.New("object not found")
	ErrInvalidIndex  = errors.New("invalid index")
	ErrMalformed     = errors.New("malformed object record")
	ErrDuplicate     = errors.New("object already in collection")
	ErrAlreadyOwned  = errors.New("object owned by another collection")
	ErrNoOwner       = errors.New("object has no owning collection")
	ErrInvalidOrigin = errors.New("invalid origin")
	ErrInvalidSize   = errors.New("size must be positive")
)
