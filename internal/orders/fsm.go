package orders

import (
	"fmt"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
)

// transitions lists, per status, the statuses an admin may move an order to.
// Delivered is terminal. Cancelled can only be reactivated to pending.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusConfirmed,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusConfirmed: {
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusShipped: {
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusDelivered: nil,
	enums.OrderStatusCancelled: {
		enums.OrderStatusPending,
	},
}

// advance is the one-step "next status" shortcut.
var advance = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusPending:   enums.OrderStatusConfirmed,
	enums.OrderStatusConfirmed: enums.OrderStatusShipped,
	enums.OrderStatusShipped:   enums.OrderStatusDelivered,
	enums.OrderStatusDelivered: enums.OrderStatusDelivered,
	enums.OrderStatusCancelled: enums.OrderStatusPending,
}

// Next returns the status the advance shortcut moves to. Unknown statuses
// are returned unchanged.
func Next(status enums.OrderStatus) enums.OrderStatus {
	if next, ok := advance[status]; ok {
		return next
	}
	return status
}

// Targets returns the statuses reachable from status in one move.
func Targets(status enums.OrderStatus) []enums.OrderStatus {
	return append([]enums.OrderStatus(nil), transitions[status]...)
}

// CanTransition reports whether from may move to to. Staying put is allowed.
func CanTransition(from, to enums.OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a move and returns the resulting status.
func Transition(from, to enums.OrderStatus) (enums.OrderStatus, error) {
	if !to.IsValid() {
		return from, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", to))
	}
	if !CanTransition(from, to) {
		return from, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", from, to)).
			WithDetails(map[string]any{"from": from, "to": to, "allowed": Targets(from)})
	}
	return to, nil
}
