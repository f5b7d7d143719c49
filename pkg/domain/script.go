package domain

import (
	"fmt"
	"time"
)

// Mode selects how a script is presented.
type Mode string

const (
	ModeDialogue Mode = "dialogue"
	ModeAuto     Mode = "auto"
	ModeReveal   Mode = "reveal"
	ModeAnimate  Mode = "animate"
)

// Modes lists every presentation mode.
var Modes = []Mode{ModeDialogue, ModeAuto, ModeReveal, ModeAnimate}

// ParseMode returns the mode named s. An empty string means ModeDialogue.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeDialogue, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Script is a stored monologue: markup parts plus presentation timing.
type Script struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title,omitempty" yaml:"title,omitempty"`
	Mode         Mode          `json:"mode,omitempty" yaml:"mode,omitempty"`
	SymbolDelay  time.Duration `json:"symbol_delay,omitempty" yaml:"symbol_delay,omitempty"`
	MessageDelay time.Duration `json:"message_delay,omitempty" yaml:"message_delay,omitempty"`
	Parts        []string      `json:"parts" yaml:"parts"`
}
