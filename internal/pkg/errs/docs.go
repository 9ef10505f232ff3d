// Package errs holds the error vocabulary shared by the domain, the use cases
// and both transports.
//
// Validation failures carry the offending parameter and unwrap to a sentinel:
//   - ValueIsRequiredError -> ErrValueIsRequired
//   - ValueIsInvalidError -> ErrValueIsInvalid
//   - ValueIsOutOfRangeError -> ErrValueIsOutOfRange
//   - ObjectNotFoundError -> ErrObjectNotFound
//
// Business rejections keep the numbers a client needs to retry:
// InsufficientStockError reports what is still available for the product,
// SlotFullError names the slot, InvalidTransitionError names both statuses.
//
// CodeOf folds any of these, plus ErrRateLimited, ErrAuthRequired and
// ErrUnauthorized, into the Code the HTTP and realtime layers put on the wire.
package errs
