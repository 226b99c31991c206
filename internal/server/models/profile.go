package models

// Profile is the public, gameplay-facing side of a user. It shares the
// user's id and is removed together with the user.
type Profile struct {
	ID          string
	DisplayName string
	XP          int64
}
