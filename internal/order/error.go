package order

import "errors"

// Reason codes are stable and returned to clients verbatim.
const (
	ReasonMissingIdentity   = "missing_identity"
	ReasonNoItems           = "no_items"
	ReasonInvalidTotal      = "invalid_total"
	ReasonNoValidItems      = "no_valid_items"
	ReasonTotalMismatch     = "total_mismatch"
	ReasonInvalidStatus     = "invalid_status"
	ReasonInvalidTransition = "invalid_transition"
)

// Rejection is a client-caused refusal with a machine-checkable reason.
type Rejection struct {
	Reason  string
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

var (
	// -- Input rejections --
	ErrMissingIdentity = &Rejection{Reason: ReasonMissingIdentity, Message: "User ID required"}
	ErrNoItems         = &Rejection{Reason: ReasonNoItems, Message: "Order items required"}
	ErrInvalidTotal    = &Rejection{Reason: ReasonInvalidTotal, Message: "Invalid total amount"}
	ErrNoValidItems    = &Rejection{Reason: ReasonNoValidItems, Message: "No valid order items"}
	ErrTotalMismatch   = &Rejection{Reason: ReasonTotalMismatch, Message: "Order total does not match items"}
	ErrInvalidStatus   = &Rejection{Reason: ReasonInvalidStatus, Message: "Invalid status"}

	// -- Resource state --
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = &Rejection{Reason: ReasonInvalidTransition, Message: "Status transition not allowed"}

	// -- Database & operation failures --
	ErrPersistenceFailure = errors.New("failed to persist order")

	// -- Constants (external systems) --
	PgUniqueViolation = "23505"
)
