package reliability

import (
	"fmt"
	"strings"
)

// Level is the measurement scale of the ratings. It selects the distance function.
type Level uint8

const (
	LevelUnset Level = iota
	Nominal
	Ordinal
	Interval
	Ratio
)

// Levels lists the supported scales in canonical order
var Levels = []Level{Nominal, Ordinal, Interval, Ratio}

func (l Level) String() string {
	switch l {
	case Nominal:
		return "nominal"
	case Ordinal:
		return "ordinal"
	case Interval:
		return "interval"
	case Ratio:
		return "ratio"
	default:
		return "unset"
	}
}

// Valid reports whether the level is one of the four supported scales
func (l Level) Valid() bool {
	return l >= Nominal && l <= Ratio
}

// ParseLevel maps a scale name (case-insensitive) to a Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nominal":
		return Nominal, nil
	case "ordinal":
		return Ordinal, nil
	case "interval":
		return Interval, nil
	case "ratio":
		return Ratio, nil
	case "":
		return LevelUnset, fmt.Errorf("measurement level is required; choose from nominal, ordinal, interval, ratio")
	default:
		return LevelUnset, fmt.Errorf("invalid measurement level %q; must be one of nominal, ordinal, interval, ratio", name)
	}
}

// MarshalText lets levels appear by name in JSON and config files
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
