package domain

import "strings"

// Status is an order lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions is the full set of legal status changes. Delivered and
// cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(value string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := transitions[s]
	return s, ok
}

// IsTerminal reports whether no transition leaves the state.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// ValidateTransition returns the new state, or a TransitionError for any
// pair outside the table. It never mutates anything; callers apply the
// transition only after it succeeds.
func ValidateTransition(current, requested Status) (Status, error) {
	for _, next := range transitions[current] {
		if next == requested {
			return requested, nil
		}
	}
	return "", &TransitionError{From: current, To: requested}
}
