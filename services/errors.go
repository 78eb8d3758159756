package services

import "fmt"

// InvalidInputError reports input that fails domain validation before any
// computation runs (negative rate, bad share ratio, negative subtotal).
// It is never swallowed; handlers decide whether to block the save or warn.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InconsistentStateError reports a persisted aggregate that no longer matches
// a fresh recomputation from its inputs.
type InconsistentStateError struct {
	ItemID     string
	Field      string
	Cached     float64
	Recomputed float64
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("item %s: cached %s %.6f does not match recomputed %.6f",
		e.ItemID, e.Field, e.Cached, e.Recomputed)
}
