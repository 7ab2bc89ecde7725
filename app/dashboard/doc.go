// Package dashboard assembles the reporting gateway: signed cookie
// sessions, the principal resolver, the company context resolver, and the
// route policy chain, mounted in front of the dashboard's handlers.
//
// The App is built from options. Production wiring supplies the
// Postgres-backed directory, resolver, and accounts plus the Redis session
// store; tests swap in memory-backed fakes:
//
//	app, err := dashboard.NewWithConfig(cfg,
//		dashboard.WithDirectory(pg.NewDirectory(pool)),
//		dashboard.WithResolver(pg.NewDirectory(pool)),
//		dashboard.WithAuthenticator(pg.NewAccounts(pool)),
//		dashboard.WithSessionStore(redis.NewSessionStore[tenant.SessionData](client)),
//	)
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8080", app.Handler())
//
// Every mounted route except /healthz runs the full middleware pipeline in
// a fixed order: session loading, principal resolution, company
// reconciliation, then route policy. Handlers read whatever the pipeline
// installed through the middleware accessors.
package dashboard
