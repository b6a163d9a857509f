// Package config fills configuration structs from the process environment.
//
// Fields are described with caarlos0/env tags. A .env file in the working
// directory is read once, on first use, before any struct is parsed;
// variables already set in the environment win over the file.
//
//	type Config struct {
//		Addr      string        `env:"SERVER_ADDR" envDefault:":8080"`
//		PublicDir string        `env:"PUBLIC_DIR" envDefault:"public"`
//		Timeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// MustLoad panics instead of returning the error and suits main.
//
// # Caching
//
// Load parses each struct type at most once per process. Later calls for the
// same type copy the cached value, so every caller sees identical settings
// even if the environment changes afterwards. Nested structs are parsed with
// their parent.
//
// # Explicit environments
//
// ParseFrom reads a variable map instead of the process environment and skips
// both the cache and the .env file:
//
//	var cfg Config
//	err := config.ParseFrom(&cfg, map[string]string{"PUBLIC_DIR": "site"})
//
// Parse failures wrap ErrParse.
package config
