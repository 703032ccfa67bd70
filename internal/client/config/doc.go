// Package config loads runtime configuration for the chat client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the chat server
//	-f string   session database file
//	-r int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_url": "http://127.0.0.1:5000",
//	  "session_db_path": "session.db",
//	  "request_timeout": "15s"
//	}
package config
