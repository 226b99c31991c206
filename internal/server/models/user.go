package models

import "time"

type User struct {
	ID                string
	Email             string
	PasswordHash      []byte
	EmailConfirmed    bool
	VerificationToken string
	CreatedAt         time.Time
}
