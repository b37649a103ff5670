// Package cli provides the interactive ubadesk command-line client.
//
// It wires configuration, the local token store, the API client and the
// session manager into a REPL. On start the persisted session is restored,
// a background watcher tracks server connectivity, and commands are read
// until the user exits.
//
// Commands map onto routes: whoami and refresh require an authenticated
// session, admin requires an administrator. Denied commands trigger the
// same navigation a protected view would (a login hint or "access denied").
package cli
