// Package pg provides PostgreSQL connection management, schema migrations,
// and the company directory and account repositories of the gateway.
//
// This package wraps the pgx driver with application-level retry logic,
// connection pool tuning, and integrated migrations using goose. The schema
// it manages holds users, their roles, companies, and company memberships.
//
// # Key Features
//
//   - Connect: Creates a connection pool with retry logic and connection verification
//   - Migrate: Applies the embedded schema migrations using goose
//   - Healthcheck: Returns a health check function for monitoring connectivity
//   - Directory: tenant.Directory and auth.Resolver over the schema
//   - Accounts: registration, credential checks, roles, and memberships
//   - Error classification functions for common PostgreSQL error patterns
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MinIdleConns      int32         `env:"PG_MIN_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	directory := pg.NewDirectory(pool)
//	accounts := pg.NewAccounts(pool)
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context; the repositories pick it up
// automatically, so multi-step writes such as creating a company and
// granting its first member share one transaction:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx) // Safe even after commit
//
//	ctx = pg.WithTx(ctx, tx)
//	company, err := accounts.CreateCompany(ctx, "Acme")
//	if err != nil {
//		return err
//	}
//	if err := accounts.Grant(ctx, ownerID, company.ID); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
package pg
