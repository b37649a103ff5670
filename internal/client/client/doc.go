// Package client contains the client-side building blocks for talking to the
// ubadesk auth API.
//
// # Overview
//
//  1. A transport-agnostic contract (Client): Register, Login, Me, Ping.
//  2. An HTTP/JSON implementation (HTTPClient) whose transport injects the
//     bearer token held by a Credentials provider and a request id into
//     every request. Ping uses the gRPC health protocol when a health
//     address is configured.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     CLI's SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are classified into sentinels matched with errors.Is:
// ErrUnavailable (transport), ErrUnauthorized (401/403), ErrValidation
// (400/409/422) and ErrServer (anything else). Non-2xx responses are
// returned as *APIError carrying the server's message; Message renders any
// error as a displayable string.
package client
