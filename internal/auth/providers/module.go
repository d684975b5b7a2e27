package providers

import (
	"github.com/brizzai/google-signin/internal/config"
	"go.uber.org/fx"
)

// Module provides the identity provider
var Module = fx.Module("providers",
	fx.Provide(
		fx.Annotate(
			func(cfg *config.OAuthConfig) *GoogleProvider {
				return NewGoogleProvider(cfg)
			},
			fx.As(new(Provider)),
		),
	),
)
