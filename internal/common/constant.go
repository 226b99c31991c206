// Package common contains shared constants and sentinel errors used across
// Questlog components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// OnboardingFlagKey is the client-local key recording that the user has
// acknowledged the honor code. The suffix is bumped whenever the honor code
// text changes so every user sees it again.
const OnboardingFlagKey = "hasSeenDisclaimer_v2"

// DeleteAccountProcedure is the remote procedure that removes the calling
// principal together with all of its gameplay rows.
const DeleteAccountProcedure = "delete_user_account"
