package checkout

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrIllegalStep     = errors.New("illegal transition of checkout step")
	ErrMissingField    = errors.New("required field is empty")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrUnknownShipping = errors.New("unknown shipping method")
	ErrUnknownPayment  = errors.New("unknown payment method")
)
