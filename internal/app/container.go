package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/flashcard/internal/infrastructure/config"
	"github.com/eslsoft/flashcard/internal/usecase"
	"github.com/eslsoft/flashcard/internal/usecase/backup"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Decks  usecase.DeckUsecase
	Backup *backup.Service
}
