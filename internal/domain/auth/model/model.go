package model

import "time"

// User is the identity record. PasswordHash is empty for accounts created by
// external sign-in; such accounts cannot use the password login.
type User struct {
	ID                 int64  `gorm:"primaryKey"`
	Name               string `gorm:"size:100;not null"`
	Email              string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash       string `gorm:"not null"`
	RefreshToken       *string
	RefreshTokenExpiry *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasPassword reports whether a local password was ever set.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	AccessTokenJTI   string
	UserID           int64
	Name             string
	Email            string
	IsNewUser        bool
}

// Principal is the caller identity extracted from a live access token.
type Principal struct {
	UserID int64
	Email  string
	Name   string
}
