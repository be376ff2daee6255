// Package client contains the admin API client used by the console.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): login and registration,
//     profile update and deletion, paginated listing of accounts, reports
//     and support tickets, account moderation, dashboard stats, system info
//     and maintenance calls.
//  2. A JSON/HTTP implementation (see HTTPClient) that attaches the bearer
//     token and a request id to every call and maps response statuses to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite state database and applying embedded goose migrations.
//
// # Error Handling
//
// Failed calls return *RequestError wrapping one of ErrUnauthorized,
// ErrNotFound, ErrUnavailable or ErrBadResponse; match with errors.Is and
// errors.As. ValidationError and AuthError are produced by the services
// built on top of the client.
//
// HTTPClient is safe for concurrent use. Token changes are atomic with
// respect to in-flight calls: a call reads the token once when it is built.
package client
