package filtex

import "errors"

// Common errors used throughout the filtex package
var (
	// ErrEmptyExpression is returned when Deserialize receives an empty or
	// whitespace-only expression.
	ErrEmptyExpression = errors.New("expression is empty")
	// ErrExpressionTooLong is returned when the input exceeds MaxExpressionLength.
	ErrExpressionTooLong = errors.New("expression exceeds maximum length")
	// ErrNilPredicate is returned when Serialize receives a nil predicate.
	ErrNilPredicate = errors.New("predicate is nil")

	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrUnknownDialect indicates a dialect name outside the supported set.
	ErrUnknownDialect = errors.New("unknown dialect")
)
