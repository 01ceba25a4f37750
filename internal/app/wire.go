//go:build wireinject
// +build wireinject

package app

import (
	"io"

	"github.com/google/wire"

	"github.com/eslsoft/flashcard/internal/infrastructure/config"
)

var configSet = wire.NewSet(
	config.Load,
	provideLogger,
)

var deckSet = wire.NewSet(
	provideDeckRepository,
	provideDeckUsecase,
	provideBackupService,
)

// Initialize builds the application container using Wire. Logs go to logOutput.
func Initialize(logOutput io.Writer) (*Container, error) {
	wire.Build(
		configSet,
		deckSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
