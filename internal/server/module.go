package server

import "go.uber.org/fx"

func Register() fx.Option {
	return fx.Options(
		fx.Provide(New),
		fx.Invoke(Start),
	)
}
