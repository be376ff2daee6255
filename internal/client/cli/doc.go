// Package cli provides the interactive admin console.
//
// It wires configuration, the credential store, the API client and the
// console core (session manager, query controllers, mutation reconcilers)
// behind a line-oriented REPL. Typical flow: restore or prompt for
// credentials, start the connectivity watcher and the purge scheduler, then
// execute operator commands against the active collection.
//
// Key features:
//   - Login / Register / Logout, profile edits and self-deletion
//   - Accounts, reports and support tickets with search, status filters and
//     paging
//   - Status actions and two-step deletes
//   - Dashboard, system info and maintenance (reset, purge)
//
// The REPL is started via App.Run(ctx), which blocks until the operator exits.
package cli
