package models

import "fmt"

// Severity is the classification of a single reading. The zero value is SeverityNormal.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityEmergency
)

var severityNames = [...]string{"normal", "warning", "critical", "emergency"}

func (s Severity) String() string {
	if s < SeverityNormal || s > SeverityEmergency {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	for i, name := range severityNames {
		if name == string(b) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(b))
}

// Max returns the higher of two severities.
func Max(a, b Severity) Severity {
	if a >= b {
		return a
	}
	return b
}
