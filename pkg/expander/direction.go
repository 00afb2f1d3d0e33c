package expander

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Direction names where the canvas grows. Center shrinks the source and
// grows the canvas on every side.
type Direction int

const (
	Center Direction = iota
	Left
	Right
	Up
	Down
)

var directionNames = [...]string{"center", "left", "right", "up", "down"}

func (d Direction) String() string {
	if d.Valid() {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Valid reports whether d is one of the five known directions.
func (d Direction) Valid() bool {
	return d >= Center && d <= Down
}

// Horizontal reports whether d grows the canvas along the x axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// ParseDirection parses a direction name case-insensitively.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidDirection, "%q", s)
}

// MarshalText encodes d as its lowercase name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, errors.Wrapf(ErrInvalidDirection, "%d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name, as ParseDirection does.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MaskConvention selects how directional expansion lays out the kept strip
// and its mask.
type MaskConvention int

const (
	// ConventionOriginal anchors the kept strip against the edge opposite the
	// growth and marks everything else unknown, so all four directions mirror
	// each other.
	ConventionOriginal MaskConvention = iota
	// ConventionLegacy reproduces the original tool byte for byte: its
	// anchors, and a known box where only Left uses the source dimension
	// while Right, Up and Down use the grown dimension.
	ConventionLegacy
)

func (c MaskConvention) String() string {
	switch c {
	case ConventionOriginal:
		return "original"
	case ConventionLegacy:
		return "legacy"
	}
	return fmt.Sprintf("MaskConvention(%d)", int(c))
}

// ParseConvention parses "original" or "legacy". An empty string is
// ConventionOriginal.
func ParseConvention(s string) (MaskConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "original":
		return ConventionOriginal, nil
	case "legacy":
		return ConventionLegacy, nil
	}
	return 0, errors.Wrapf(ErrInvalidConvention, "%q", s)
}
