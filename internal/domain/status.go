package domain

import "strings"

// POStatus is the lifecycle status of a purchase order.
type POStatus string

const (
	PODraft             POStatus = "DRAFT"
	POPending           POStatus = "PENDING"
	POOrdered           POStatus = "ORDERED"
	POPartiallyReceived POStatus = "PARTIALLY_RECEIVED"
	POReceived          POStatus = "RECEIVED"
	POCancelled         POStatus = "CANCELLED"
)

// poTransitions is the single source of truth for caller-requested
// status changes. Receiving moves ORDERED/PARTIALLY_RECEIVED forward on
// its own and is not part of this table.
var poTransitions = map[POStatus][]POStatus{
	PODraft:             {POPending, POOrdered, POCancelled},
	POPending:           {POOrdered, POCancelled},
	POOrdered:           {POCancelled},
	POPartiallyReceived: {POReceived, POCancelled},
	POReceived:          {},
	POCancelled:         {},
}

// CanTransition reports whether a purchase order may be moved from one
// status to another by an explicit update.
func CanTransition(from, to POStatus) bool {
	for _, allowed := range poTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParsePOStatus returns the status for a given label (case-insensitive).
func ParsePOStatus(label string) (POStatus, bool) {
	status := POStatus(strings.ToUpper(strings.TrimSpace(label)))
	_, ok := poTransitions[status]
	return status, ok
}

// Terminal reports whether no further transitions exist for the status.
func (s POStatus) Terminal() bool {
	return len(poTransitions[s]) == 0
}

// DerivePOStatus recomputes the order status from line totals after a
// receive call. The zero return means "leave the status unchanged".
func DerivePOStatus(items []PurchaseOrderItem) POStatus {
	var ordered, received int
	for _, item := range items {
		ordered += item.OrderedQuantity
		received += item.ReceivedQuantity
	}
	switch {
	case ordered > 0 && received >= ordered:
		return POReceived
	case received > 0 && received < ordered:
		return POPartiallyReceived
	default:
		return ""
	}
}

// SessionStatus is the lifecycle status of an inventory session. The
// flow is linear: IN_PROGRESS -> REVIEW -> COMPLETED.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionReview     SessionStatus = "REVIEW"
	SessionCompleted  SessionStatus = "COMPLETED"
)
