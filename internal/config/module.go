package config

import "go.uber.org/fx"

// Module supplies an already loaded Config together with its key-path
// Provider and the backend section.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			func(c *Config) *Provider { return c.Provider() },
			func(c *Config) *BackendConfig { return &c.Backend },
			func(c *Config) *LoggingConfig { return &c.Logging },
		),
	)
}
