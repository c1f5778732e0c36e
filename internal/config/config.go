package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds the runtime configuration, read from the environment.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`

	UserServiceURL string `env:"USER_SERVICE_URL" envDefault:"http://localhost:8080"`

	// Couchbase settings are optional; when no endpoint is set the service
	// falls back to in-memory storage.
	CouchbaseEndpoint string `env:"COUCHBASE_ENDPOINT"`
	CouchbaseUsername string `env:"COUCHBASE_USERNAME"`
	CouchbasePassword string `env:"COUCHBASE_PASSWORD"`
	CouchbaseBucket   string `env:"COUCHBASE_BUCKET" envDefault:"sales"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	return &cfg, nil
}

// UseCouchbase reports whether a Couchbase endpoint was configured.
func (c *Config) UseCouchbase() bool {
	return c.CouchbaseEndpoint != ""
}
