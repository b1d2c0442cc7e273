package configs

// NATS configures the notification publisher. When URL is empty the
// application logs events instead of publishing them.
type NATS struct {
	// URL is the NATS server URL, e.g. nats://localhost:4222. Empty disables
	// publishing.
	URL string `env:"URL" envDefault:""`
	// Name identifies this connection to the server.
	Name string `env:"NAME" envDefault:"podops"`
}
