package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an input fails validation.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unauthorized is returned when the caller is not permitted to perform the operation.
	Unauthorized = ErrorKind("Unauthorized")

	// Duplicate is returned when an item already exists.
	Duplicate = ErrorKind("Duplicate")

	// Unsupported is returned for unsupported options or operations.
	Unsupported = ErrorKind("Unsupported")

	// InsufficientFunds is returned when a balance or payment cannot cover the operation.
	InsufficientFunds = ErrorKind("Insufficient Funds")

	// Reentrancy is returned when a guarded operation is re-entered while still executing.
	Reentrancy = ErrorKind("Reentrancy")

	// InvalidState is returned when the target is not in a state that allows the operation.
	InvalidState = ErrorKind("Invalid State")

	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint128 = ErrorKind("overflow uint128")

	// InternalError is returned for broken invariants that callers cannot react to.
	InternalError = ErrorKind("Internal Error")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
