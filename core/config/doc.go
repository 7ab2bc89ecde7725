// Package config loads typed configuration structs from environment
// variables.
//
// Configuration is declared with `env` and `envDefault` struct tags and
// parsed via caarlos0/env; a .env file is picked up automatically in
// development. Required values use the `env:"NAME,required"` form, which
// makes Load fail at startup instead of surfacing half-configured behavior
// at request time.
//
//	type Config struct {
//		DB      pg.Config
//		Cookie  cookie.Config
//		Session session.Config
//
//		AppName string `env:"APP_NAME" envDefault:"tallyboard"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package config
