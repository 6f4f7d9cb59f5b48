package planner

import "fmt"

// DataError reports a missing or empty required table, or a reference to
// an entity absent from the configured lookup tables.
type DataError struct {
	// Table names the offending input table or lookup.
	Table string

	// Detail describes what was missing.
	Detail string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("planning data error in %s: %s", e.Table, e.Detail)
}

// NumericError reports a computation that would divide by a zero
// denominator. These are surfaced explicitly rather than coerced to zero
// or NaN.
type NumericError struct {
	// Quantity names the zero denominator.
	Quantity string

	// Detail gives the context of the division.
	Detail string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error: %s is zero (%s)", e.Quantity, e.Detail)
}
