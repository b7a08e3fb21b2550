package models

import (
	"time"

	"wishlist-backend/internal/features/auth/initdata"
	"wishlist-backend/internal/features/auth/token"
)

// Column is a users table column that login may refresh.
type Column string

const (
	ColumnUsername  Column = "tg_username"
	ColumnFirstName Column = "first_name"
	ColumnLastName  Column = "last_name"
	ColumnAvatarURL Column = "avatar_url"
)

// User is a registered Telegram user. Empty optional strings mean the value is unset.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser builds the record stored on first login.
func NewUser(identity *initdata.Identity) *User {
	return &User{
		ID:        identity.ID,
		Username:  identity.Username,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		AvatarURL: identity.PhotoURL,
	}
}

// ChangedFields returns the profile columns whose stored value differs from identity.
func (u *User) ChangedFields(identity *initdata.Identity) map[Column]string {
	changes := make(map[Column]string)
	if u.Username != identity.Username {
		changes[ColumnUsername] = identity.Username
	}
	if u.FirstName != identity.FirstName {
		changes[ColumnFirstName] = identity.FirstName
	}
	if u.LastName != identity.LastName {
		changes[ColumnLastName] = identity.LastName
	}
	if u.AvatarURL != identity.PhotoURL {
		changes[ColumnAvatarURL] = identity.PhotoURL
	}
	return changes
}

// Apply copies persisted changes onto u.
func (u *User) Apply(changes map[Column]string, updatedAt time.Time) {
	for column, value := range changes {
		switch column {
		case ColumnUsername:
			u.Username = value
		case ColumnFirstName:
			u.FirstName = value
		case ColumnLastName:
			u.LastName = value
		case ColumnAvatarURL:
			u.AvatarURL = value
		}
	}
	u.UpdatedAt = updatedAt
}

// DisplayName is the first name followed by the last name when present.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token   *token.Token
	User    *User
	Created bool
	Changed []Column
}

// UserResponse is the public view of a user.
// @Description Public user profile
type UserResponse struct {
	ID        int64     `json:"id" example:"123456789"`
	Username  *string   `json:"username" example:"johndoe"`
	FirstName string    `json:"first_name" example:"John"`
	LastName  *string   `json:"last_name" example:"Doe"`
	AvatarURL *string   `json:"avatar_url" example:"https://t.me/i/userpic/320/johndoe.jpg"`
	CreatedAt time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-03-15T14:30:00Z"`
}
