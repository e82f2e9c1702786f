package errx

// Common error constructors for convenience

// Internal creates an internal server error
func Internal(message string) *Error {
	return New(message, TypeInternal)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(message, TypeValidation)
}

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(message, TypeConflict)
}

// Timeout creates a deadline-exceeded error
func Timeout(message string) *Error {
	return New(message, TypeTimeout)
}

// External creates an external service error
func External(message string) *Error {
	return New(message, TypeExternal)
}
