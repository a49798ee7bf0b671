package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned by ParseAction for values other than remove and move.
var ErrUnknownAction = errors.New("unknown action")

// Action selects how anomalies and duplicates are resolved.
type Action string

const (
	// ActionRemove deletes non-surviving files.
	ActionRemove Action = "remove"
	// ActionMove quarantines files into CUI and DUP folders under the root.
	ActionMove Action = "move"
)

// ParseAction converts a user supplied string to an Action.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionRemove:
		return ActionRemove, nil
	case ActionMove:
		return ActionMove, nil
	default:
		return "", fmt.Errorf("%w %q (want remove or move)", ErrUnknownAction, s)
	}
}

func (a Action) String() string {
	return string(a)
}
