package enums

import "fmt"

// DropState is the lifecycle state of a donation offer. RESERVED is terminal:
// delivery confirmation is an extension point, not a modeled transition.
type DropState string

const (
	DropStateAvailable DropState = "AVAILABLE"
	DropStateReserved  DropState = "RESERVED"
)

var validDropStates = []DropState{
	DropStateAvailable,
	DropStateReserved,
}

// String implements fmt.Stringer.
func (s DropState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DropState.
func (s DropState) IsValid() bool {
	for _, candidate := range validDropStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDropState converts raw input into a DropState.
func ParseDropState(value string) (DropState, error) {
	for _, candidate := range validDropStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid drop state %q", value)
}
