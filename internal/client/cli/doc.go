// Package cli is the interactive Questlog terminal client.
//
// It wires configuration, the local settings database, the Identity & Data
// Service client and the account package into a small REPL. Views (landing,
// dashboard, settings, docs) are rendered after each command when the
// account logic has asked to navigate.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
