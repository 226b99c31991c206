package client

// Principal is the authenticated identity as known to the service.
type Principal struct {
	ID    string
	Email string
}

// Profile is the public part of a user's account.
type Profile struct {
	ID          string
	DisplayName string
}
