package model

import "time"

// User represents a user of the platform.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	IsArtist  bool      `json:"isArtist"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
