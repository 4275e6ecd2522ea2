// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - UnauthorizedError / ForbiddenError: For authentication and authorization failures
//   - ConflictError: For operations that lost a race against a concurrent caller
//   - PreconditionFailedError: For state transitions attempted from the wrong state
//   - TimeoutError: For dependency calls that exceeded their deadline
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach to error handling improves error reporting,
// makes error handling more consistent, and enables better error classification
// and handling throughout the application. The HTTP adapter maps sentinel
// errors to response status codes with errors.Is, so expected outcomes such
// as Conflict and PreconditionFailed stay distinguishable from Unauthorized
// and Forbidden.
package errs
