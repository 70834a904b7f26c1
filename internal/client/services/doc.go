// Package services contains the JobBoard domain endpoints used by the CLI.
//
// Every call goes through a client.Runner (the reauthenticating pipeline,
// usually wrapped by the toast middleware). Responses are decoded either
// flat or from a {"data": ...} envelope.
package services
