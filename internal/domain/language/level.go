package language

import "strings"

// Level is an ordinal proficiency on a fixed 0-100 scale.
type Level int

const (
	None         Level = 0
	Basic        Level = 25
	Intermediate Level = 50
	Advanced     Level = 75
	Native       Level = 100
)

func (l Level) Valid() bool {
	switch l {
	case None, Basic, Intermediate, Advanced, Native:
		return true
	}
	return false
}

func (l Level) String() string {
	switch l {
	case None:
		return "none"
	case Basic:
		return "basic"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	case Native:
		return "native"
	}
	return "unknown"
}

// Parse maps a snapshot wire value onto the ordinal scale. Unknown values
// parse as None so a malformed snapshot degrades instead of failing.
func Parse(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return Basic
	case "intermediate":
		return Intermediate
	case "advanced":
		return Advanced
	case "native":
		return Native
	default:
		return None
	}
}
