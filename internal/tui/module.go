package tui

import (
	"github.com/brizzai/google-signin/internal/signin"
	"go.uber.org/fx"
)

// Module provides the sign-in screen model
var Module = fx.Module("tui",
	fx.Provide(
		func(handler *signin.Handler, launcher *signin.Launcher) AppModel {
			return NewAppModel(handler, launcher)
		},
	),
)
