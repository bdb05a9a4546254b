package model

import (
	"strings"

	"vk-ticket-bot/internal/domain"
)

// Command types mirror how the command table is edited: a plain text reply
// or a reply that also swaps the keyboard.
const (
	CommandTypeText     = "text"
	CommandTypeKeyboard = "keyboard"
)

// Command is a configurable trigger -> response pair stored in the database.
// Commands are resolved only while the conversation is idle.
type Command struct {
	ID       int64
	Name     string // unique, case-insensitive
	Triggers []string
	Response string
	Keyboard string // optional serialized keyboard payload
	Type     string
}

func NewCommand(name string, triggers []string, response, keyboard string) (*Command, error) {
	if name == "" || response == "" || len(triggers) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	typ := CommandTypeText
	if keyboard != "" {
		typ = CommandTypeKeyboard
	}
	return &Command{
		Name:     name,
		Triggers: triggers,
		Response: response,
		Keyboard: keyboard,
		Type:     typ,
	}, nil
}

// Matches reports whether the inbound text hits any of the command triggers.
// Matching is case-insensitive containment, same as the built-in keywords.
func (c *Command) Matches(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, t := range c.Triggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
