package models

import "time"

// User is a row from the users table. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
