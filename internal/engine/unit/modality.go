package unit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownModality is returned when a section names a modality that does
// not exist.
var ErrUnknownModality = errors.New("unknown modality")

// Modality is the interaction mode a unit requires.
type Modality uint8

const (
	// Type units are committed by a matching keystroke.
	Type Modality = iota

	// Write units are committed by any keystroke; handwriting is not verified.
	Write

	// Listen units are committed by audio playback.
	Listen

	// Diagram units are display-only and skipped by navigation.
	Diagram
)

// String returns the lowercase modality name.
func (m Modality) String() string {
	switch m {
	case Type:
		return "type"
	case Write:
		return "write"
	case Listen:
		return "listen"
	case Diagram:
		return "diagram"
	default:
		return fmt.Sprintf("Modality(%d)", m)
	}
}

// Valid reports whether m is one of the four defined modalities.
func (m Modality) Valid() bool {
	return m <= Diagram
}

// Navigable reports whether the cursor may rest on a unit of this modality.
func (m Modality) Navigable() bool {
	return m != Diagram
}

// ParseModality parses a modality name (case-insensitive).
func ParseModality(s string) (Modality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type", "typing":
		return Type, nil
	case "write", "writing":
		return Write, nil
	case "listen", "listening":
		return Listen, nil
	case "diagram":
		return Diagram, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModality, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Modality) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModality, m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Modality) UnmarshalText(text []byte) error {
	parsed, err := ParseModality(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Visitor handles each modality. Implementations must cover every case,
// which keeps modality dispatch exhaustive at compile time.
type Visitor[R any] interface {
	VisitType() R
	VisitWrite() R
	VisitListen() R
	VisitDiagram() R
}

// Visit dispatches m to the matching Visitor method.
// It panics on an invalid modality; Build never produces one.
func Visit[R any](m Modality, v Visitor[R]) R {
	switch m {
	case Type:
		return v.VisitType()
	case Write:
		return v.VisitWrite()
	case Listen:
		return v.VisitListen()
	case Diagram:
		return v.VisitDiagram()
	}
	panic(fmt.Sprintf("unit: %v", m))
}
