// Package session provides server-side sessions with typed custom data.
//
// A Session carries an opaque token (the cookie value), the authenticated
// user binding, and a generic Data payload; the gateway stores the
// caller's selected company there. Sessions track their own modification
// state so the middleware only writes back when something changed, and an
// idle timeout plus throttled touch keeps live sessions from expiring while
// avoiding a store write on every request.
//
// # Lifecycle
//
//	store := session.NewMemoryStore[tenant.SessionData]()
//	sessions := session.NewManager(store, session.WithTTL(12*time.Hour))
//
//	sess, _ := sessions.New(session.NewSessionParams{IP: ip, UserAgent: ua})
//	sess, _ = sessions.Authenticate(ctx, sess, userID) // rotates token, resets Data
//	_ = sessions.Store(ctx, sess)                      // persist on request end
//	sess, _ = sessions.Logout(ctx, sess)               // destroys, returns anonymous
//
// # Concurrent data updates
//
// Parallel requests from one browser session (for example simultaneous
// XHRs) may both rewrite the session at request end; last write wins for
// the record as a whole. Fields that must never lose an update, like the
// selected company, go through Manager.UpdateData, which delegates to the
// store's atomic read-modify-write instead of the save-at-end path.
//
// Store implementations: MemoryStore here, Redis-backed in
// integration/database/redis.
package session
