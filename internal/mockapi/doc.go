// Package mockapi is an in-memory JobBoard REST backend for local
// development and end-to-end tests of the client.
//
// Successful responses are wrapped as {"data": ...}; failures as
// {"error": {"code", "message"}}. Access tokens are short-lived HS256 JWTs
// bound to a client fingerprint. Refresh tokens are opaque, single use and
// rotated on every refresh.
package mockapi
