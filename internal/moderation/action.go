package moderation

import (
	"fmt"
	"strings"
)

type Action string

const (
	ActionDelete   Action = "delete"
	ActionWarn     Action = "warn"
	ActionMute     Action = "mute"
	ActionKick     Action = "kick"
	ActionBan      Action = "ban"
	ActionLockdown Action = "lockdown"
	ActionLog      Action = "log"
)

var contentActions = []Action{ActionDelete, ActionWarn, ActionMute, ActionKick, ActionBan, ActionLog}

var raidActions = []Action{ActionLockdown, ActionKick, ActionLog}

// StopsChain reports whether a triggered filter with this action ends evaluation
// for the message. Observe-only and escalation actions let the chain continue.
func (a Action) StopsChain() bool {
	switch a {
	case ActionDelete, ActionWarn, ActionMute:
		return true
	default:
		return false
	}
}

func (a Action) DeletesMessage() bool {
	switch a {
	case ActionDelete, ActionWarn, ActionMute, ActionKick, ActionBan:
		return true
	default:
		return false
	}
}

func ParseAction(value string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(value)))
	switch action {
	case ActionDelete, ActionWarn, ActionMute, ActionKick, ActionBan, ActionLockdown, ActionLog:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, value)
	}
}

// AllowedActions returns the action subset a filter accepts.
func AllowedActions(filter string) ([]Action, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}
	if filter == FilterAntiRaid {
		return raidActions, nil
	}
	return contentActions, nil
}

func ValidateAction(filter string, action Action) error {
	allowed, err := AllowedActions(filter)
	if err != nil {
		return err
	}
	for _, candidate := range allowed {
		if candidate == action {
			return nil
		}
	}
	return fmt.Errorf("%w: %s does not accept %q", ErrInvalidAction, filter, action)
}
