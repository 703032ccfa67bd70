// Package cli provides the interactive chat client shell.
//
// It wires configuration, the local session database, the HTTP API client,
// the shared application state and the login/profile forms, then runs a REPL.
// A session stored by a previous run is picked up on start.
//
// Commands:
//   - register, login, guest, logout
//   - profile (show), edit (change name, email or picture)
//   - users [search]
//   - ping, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
