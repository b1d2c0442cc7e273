package configs

// Redis configures the shared idempotency cache. When Addr is empty the
// application falls back to the process-local in-memory cache, which does not
// deduplicate requests across instances.
type Redis struct {
	// Addr is the Redis host:port. Empty disables Redis.
	Addr string `env:"ADDR" envDefault:""`
	// Password authenticates the connection when set.
	Password string `env:"PASSWORD" envDefault:""`
	// DB selects the logical database.
	DB int `env:"DB" envDefault:"0"`
}
