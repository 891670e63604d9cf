package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleEmployee  = "employee"
	RoleOfficeBoy = "office_boy"
	RoleITSupport = "it_support"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")

// Account models an authenticated actor. The core consumes only name, room
// and role; credential storage belongs to the identity collaborator.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Room         string    `json:"room"`
	CreatedAt    time.Time `json:"created_at"`
}

// QueueCategory maps a fulfillment role to the single category it serves.
// Admin sees every queue, so the caller must pick one explicitly.
func QueueCategory(role string) (Category, bool) {
	switch role {
	case RoleOfficeBoy:
		return CategoryBuffet, true
	case RoleITSupport:
		return CategoryITSupport, true
	default:
		return "", false
	}
}

// MenuItem is a buffet menu entry owned by administrative collaborators.
type MenuItem struct {
	Name      string `json:"name" bson:"name"`
	Available bool   `json:"available" bson:"available"`
}

// Room is a room-list entry owned by administrative collaborators.
type Room struct {
	Name string `json:"name" bson:"name"`
}
