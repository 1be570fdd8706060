package service

import "errors"

// Domain errors the handlers translate into HTTP statuses. Business-rule
// rejections map to 422, access denials to 403, lookups to 404.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrIPNotAllowed       = errors.New("login from this IP is not allowed")
	ErrAccountExpired     = errors.New("account has expired")

	ErrForbidden = errors.New("forbidden")

	ErrCrossBoardMove           = errors.New("cards cannot move between boards")
	ErrPaymentRequired          = errors.New("payment must be completed before moving to a visa list")
	ErrDependantPaymentRequired = errors.New("dependant payment must be completed before moving to a dependant visa list")
)
