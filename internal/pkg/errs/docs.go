// Package errs provides standardized error types for the scan workflow service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - RuleViolationError: For business rules rejected after lookup (preconditions)
//     or at write time (conflicts)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Rule violations carry a stable machine code (e.g. "OPERATOR_CONFLICT") so that
// transports can render a specific, actionable message, and a category sentinel
// (ErrPreconditionFailed or ErrConflict) so that callers can decide whether a
// retry makes sense.
package errs
