// Package client is the transport layer of the JobBoard client.
//
// # Overview
//
//  1. HTTPExecutor performs one HTTP exchange for a Request, injecting the
//     Content-Type, Accept-Language, X-Client-Fingerprint and Authorization
//     headers from an Ambient value. It has no auth semantics and never
//     retries.
//  2. Pipeline wraps an Executor. A 401 triggers one POST /auth/refresh with
//     the stored refresh token; on success the Auth State and the session
//     store receive the new pair and the original request is retried once.
//     Without a refresh token, or when the refresh fails, the session is
//     cleared, the Navigator is asked to show the login screen and the
//     original 401 is returned.
//
// # Error Handling
//
// Every error returned by this package is a *Failure with a Kind of
// KindTransport, KindParse or KindHTTP. Use AsFailure, StatusOf and
// IsUnauthorized to inspect it.
//
// Concurrency & Contexts
//
// Both types are safe for concurrent use. Concurrent 401s refresh
// independently unless WithRefreshCoalescing is given. Cancelling the
// context aborts the in-flight call and yields a KindTransport failure; a
// cancelled caller never causes a forced logout.
package client
