package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type OrderAction string

const (
	OrderActionAccept   OrderAction = "accept"
	OrderActionComplete OrderAction = "complete"
	OrderActionCancel   OrderAction = "cancel"
)

type transition struct {
	from          []OrderStatus
	to            OrderStatus
	markProcessed bool
}

var transitions = map[OrderAction]transition{
	OrderActionAccept:   {from: []OrderStatus{OrderStatusNew}, to: OrderStatusAccepted, markProcessed: true},
	OrderActionComplete: {from: []OrderStatus{OrderStatusAccepted}, to: OrderStatusCompleted},
	OrderActionCancel:   {from: []OrderStatus{OrderStatusNew, OrderStatusAccepted}, to: OrderStatusCanceled},
}

func ParseOrderAction(s string) (OrderAction, error) {
	action := OrderAction(s)
	if _, ok := transitions[action]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}

	return action, nil
}

// IsTerminal reports whether no action can move the order any further.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// Apply moves the order along the lifecycle. Only accept touches IsProcessed.
func (o *Order) Apply(action OrderAction) error {
	t, ok := transitions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	allowed := false
	for _, from := range t.from {
		if o.Status == from {
			allowed = true
			break
		}
	}

	if !allowed {
		return fmt.Errorf("%w: cannot %s an order in status %s", ErrInvalidTransition, action, o.Status)
	}

	o.Status = t.to
	if t.markProcessed {
		o.IsProcessed = true
	}

	return nil
}
