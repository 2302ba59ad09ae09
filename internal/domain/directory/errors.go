package directory

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUnknownMutation  = errors.New("unknown mutation type")
	ErrInvalidPayload   = errors.New("invalid mutation payload")
)
