// Package cli provides the interactive JobBoard command-line client.
//
// NewApp wires configuration, the session database, the request pipeline and
// the domain services; Run restores the stored session and starts the REPL.
// The App is also the pipeline's Navigator: once the REPL is running, a
// forced logout brings the user back to the login prompt.
package cli
