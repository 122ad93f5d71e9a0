package domain

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrDiscountNotFound   = errors.New("invalid or expired discount code")
	ErrBelowMinimum       = errors.New("order total below discount minimum")
	ErrOrderFullyCovered  = errors.New("order total already covered by discounts")
	ErrAlreadyApplied     = errors.New("discount already applied to this order")
	ErrAlreadySettled     = errors.New("discount already settled for this order")
	ErrCodeSpaceExhausted = errors.New("could not allocate unique discount code")
)
