package signin

import "go.uber.org/fx"

// Module provides the screen state holder and the sign-in launcher
var Module = fx.Module("signin",
	fx.Provide(
		NewHandler,
		NewLauncher,
	),
)
