package config

import (
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

// Module provides the loaded configuration and its sections.
// It expects a *pflag.FlagSet to be supplied by the caller.
var Module = fx.Module("config",
	fx.Provide(
		Load,
		func(c *Config) *OAuthConfig { return &c.OAuth },
		func(c *Config) *LoggingConfig { return &c.Logging },
	),
)

// Flags supplies an already parsed flag set to Module
func Flags(fs *pflag.FlagSet) fx.Option {
	return fx.Supply(fs)
}
