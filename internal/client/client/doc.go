// Package client contains the client-side building blocks for talking to the
// Identity & Data Service.
//
// # Overview
//
//  1. Client, the transport-agnostic contract the account layer depends on:
//     SignUp, SignInWithPassword, SignOut, GetUser, GetProfile, RPC,
//     VerifyEmail, Ping.
//  2. GRPCClient, the gRPC implementation. It keeps the session tokens in
//     memory only, injects the access token through an interceptor and
//     refreshes it once when the service reports "token expired".
//  3. InitDatabase and RunMigrations, which open the local SQLite store used
//     for client-side preferences and apply the embedded goose migrations.
//
// # Error Handling
//
// Failures from the service are returned as *ServiceError carrying the
// service's message verbatim. ServiceError matches ErrUnauthorized and
// ErrUnavailable with errors.Is according to its gRPC code.
package client
