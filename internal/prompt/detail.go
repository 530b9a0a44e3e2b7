package prompt

import "fmt"

// DetailLevel controls how much context the user prompt carries.
type DetailLevel int

const (
	DetailMinimal DetailLevel = iota
	DetailStandard
	DetailDetailed
)

// ParseDetailLevel maps the CLI flag value to a level.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch s {
	case "minimal":
		return DetailMinimal, nil
	case "", "standard":
		return DetailStandard, nil
	case "detailed":
		return DetailDetailed, nil
	default:
		return DetailStandard, fmt.Errorf("unknown detail level %q (want minimal, standard, or detailed)", s)
	}
}

func (d DetailLevel) String() string {
	switch d {
	case DetailMinimal:
		return "minimal"
	case DetailDetailed:
		return "detailed"
	default:
		return "standard"
	}
}
