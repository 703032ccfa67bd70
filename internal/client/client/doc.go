// Package client contains the chat client's transport to the server.
//
// # Overview
//
// The package provides:
//  1. The Client interface: Register, Login, GetProfile, ListUsers,
//     UpdateProfile and Ping.
//  2. HTTPClient, a JSON-over-HTTP implementation. Profile updates without a
//     picture go out as application/json; with a picture they are sent as
//     multipart/form-data with the file in the "pic" field.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     SQLite session database and applies embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers come back as *APIError carrying the server's message.
// A 401 matches ErrUnauthorized with errors.Is; transport failures wrap
// ErrUnavailable.
package client
