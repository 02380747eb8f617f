package core

import "fmt"

type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeProduction, ModeDevelopment:
		return Mode(s), nil
	case "":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown mode %q: expected %q or %q", s, ModeProduction, ModeDevelopment)
	}
}

func (m Mode) IsProduction() bool {
	return m == ModeProduction
}
