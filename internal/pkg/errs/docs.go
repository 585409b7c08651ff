// Package errs provides the standardized error types of the fulfilment service.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct carrying the details (parameter name, offending value, cause)
//   - constructors with and without cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// Domain packages declare their own sentinels (insufficient stock, invalid transition, ...)
// and use these types for plain validation failures.
package errs
