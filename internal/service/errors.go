package service

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrNoActiveSession = errors.New("no active checkout session")
)
