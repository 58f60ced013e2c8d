package appointment

import "strings"

const (
	StatePending   = "PENDING"
	StateConfirmed = "CONFIRMED"
	StateAttended  = "ATTENDED"
	StateCancelled = "CANCELLED"
)

// States lists every appointment state in workflow order.
func States() []string {
	return []string{StatePending, StateConfirmed, StateAttended, StateCancelled}
}

func ValidState(s string) bool {
	switch s {
	case StatePending, StateConfirmed, StateAttended, StateCancelled:
		return true
	}
	return false
}

// NormalizeState upper-cases and trims s; it does not validate.
func NormalizeState(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// StateLabel is the human readable form used in calendar titles.
func StateLabel(s string) string {
	switch s {
	case StatePending:
		return "Pending"
	case StateConfirmed:
		return "Confirmed"
	case StateAttended:
		return "Attended"
	case StateCancelled:
		return "Cancelled"
	}
	return s
}

var transitions = map[string][]string{
	StatePending:   {StateConfirmed, StateCancelled},
	StateConfirmed: {StateAttended, StateCancelled},
}

// TransitionPolicy decides which state changes are accepted. When Strict is
// false any valid state may follow any other.
type TransitionPolicy struct {
	Strict bool
}

func (p TransitionPolicy) Allowed(from, to string) bool {
	if !ValidState(to) {
		return false
	}
	if from == to || !p.Strict {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
