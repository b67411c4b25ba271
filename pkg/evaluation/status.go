package evaluation

import (
	"fmt"
	"strings"
)

// Status is the quality verdict for a score or a single parameter.
type Status int

const (
	Ideal Status = iota
	Acceptable
	NotRecommended
	// NotApplicable marks a missing pH reading. The weighted score never
	// produces it.
	NotApplicable
)

var statusNames = [...]string{
	Ideal:          "IDEAL",
	Acceptable:     "ACCEPTABLE",
	NotRecommended: "NOT_RECOMMENDED",
	NotApplicable:  "NOT_APPLICABLE",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("evaluation: invalid status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	normalized := strings.ToUpper(strings.TrimSpace(string(text)))
	for i, name := range statusNames {
		if name == normalized {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("evaluation: unknown status %q", string(text))
}
