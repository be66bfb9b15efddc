// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver: connection pooling with startup retries, a health check
// closure, and error classification helpers shared by the Postgres-backed
// stores in this module.
//
// # Usage
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	users := provider.NewPostgresProvider(pool, hasher.NewBcrypt(0))
//
// All configuration values come from environment variables so they can be
// tuned per environment without code changes. Refer to the field tags in
// Config for variable names and defaults.
//
// Helpers such as [IsNotFoundError] and [IsDuplicateKeyError] unwrap the
// errors returned by pgx and *pgconn.PgError, keeping error classification
// out of business logic.
package pg
