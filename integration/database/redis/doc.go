// Package redis provides Redis client initialization, health checking, and
// the Redis-backed session store used by multi-node gateway deployments.
//
// This package wraps the go-redis client with connection validation and
// retry logic so the gateway can start alongside Redis without crash-looping
// on transient network issues. It supports both redis:// and rediss:// (TLS)
// URL schemes.
//
// # Key Features
//
//   - Connect: Creates a Redis client with retry logic and connection verification
//   - Healthcheck: Returns a health check function for monitoring Redis connectivity
//   - SessionStore: A session.Store implementation with atomic per-session updates
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		ScanBatchSize  int           `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
//	}
//
// # Session Storage
//
// SessionStore persists sessions as JSON records keyed by session ID with a
// secondary token index for cookie lookups. Key TTLs track the session
// expiry, so Redis evicts stale sessions on its own.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	store := redis.NewSessionStore[tenant.SessionData](client)
//	sessions := session.NewManager(store)
//
// UpdateData runs under WATCH, so two requests racing to change the same
// session (for example, switching the selected company in two tabs) cannot
// overwrite each other's writes.
package redis
