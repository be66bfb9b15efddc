// Package config loads configuration structs from environment variables
// with optional .env file support.
//
// Each configuration type is parsed once per process and cached; concurrent
// and repeated loads of the same type are cheap and race-free. Struct fields
// are mapped with `env` tags as implemented by github.com/caarlos0/env.
package config
