// Package config loads environment variables into typed structs.
//
// Struct fields are described with caarlos0/env tags. Nested structs are
// parsed too, which lets a service embed the configs of the packages it
// wires:
//
//	type Config struct {
//		Server server.Config
//		PG     pg.Config
//
//		JWTSecret string `env:"JWT_SECRET,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// A .env file in the working directory is read once, before the first
// Load, and never overrides variables already present in the process
// environment.
//
// The parsed value is cached per type, so repeated loads of the same
// struct are cheap and consistent. Reset[T] drops a cached entry.
package config
