// Package sessiontransport moves sessions between HTTP requests and the
// session store.
//
// The Cookie transport keeps the session token in a signed cookie and
// resolves it to a server-side session on Load. Load never fails: a missing
// or invalid cookie yields a fresh anonymous session, which keeps every
// public page functional regardless of client state. Store writes the
// session back and keeps the cookie's MaxAge aligned with the server-side
// expiration, and Authenticate/Logout wrap the login and logout transitions
// including token rotation.
package sessiontransport
