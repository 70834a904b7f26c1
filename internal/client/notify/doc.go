// Package notify turns failed API calls into user-facing toasts.
//
// Middleware wraps a client.Runner and hands every failure to an Observer.
// The toast key is resolved from the failure's structured code first and
// its HTTP status second. Unauthorized failures are never shown; the
// pipeline already redirected to login.
package notify
