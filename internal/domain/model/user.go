package model

import (
	"strings"
	"time"

	"vk-ticket-bot/internal/domain"
)

// User is a domain entity representing a VK user known to the bot.
type User struct {
	VKID         int64
	FirstName    string
	LastName     string
	Username     string // screen_name
	MessageCount int
	IsOnline     bool
	Banned       bool
	BanReason    string
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(vkID int64, firstName, lastName, username string) (*User, error) {
	if vkID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		VKID:         vkID,
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.VKID == 0 }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
