// Package account holds the client's account logic: the sign-up email
// allow-list, sign-up and sign-in submission, resolving the label shown for
// the signed-in user, and the confirmation-gated lifecycle actions (resetting
// the honor-code acknowledgement and deleting the account).
//
// The package talks to the Identity & Data Service only through
// client.Client, to device-local storage only through Storage, and moves the
// user between views only through Navigator, so every component can be driven
// by fakes in tests.
package account
