package errors

import "errors"

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
var ErrNotFound = errors.New("resource not found")

var ErrStoreClosed = errors.New("delivery store is closed")
var ErrAlcoholWindow = errors.New("alcohol sales are not allowed at this hour")
var ErrOutOfStock = errors.New("product is out of stock")
var ErrProductInactive = errors.New("product is not active")
var ErrEmptyOrder = errors.New("order has no items")

var ErrCouponNotFound = errors.New("coupon not found")
var ErrCouponUsed = errors.New("coupon has already been used")
var ErrCodeCollision = errors.New("could not generate a unique coupon code")

var ErrEventInactive = errors.New("event is not active")
var ErrRateLimited = errors.New("too many requests")
