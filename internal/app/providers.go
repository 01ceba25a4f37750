package app

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/flashcard/internal/adapter/repository"
	"github.com/eslsoft/flashcard/internal/infrastructure/config"
	"github.com/eslsoft/flashcard/internal/infrastructure/logger"
	"github.com/eslsoft/flashcard/internal/repository"
	"github.com/eslsoft/flashcard/internal/usecase"
	"github.com/eslsoft/flashcard/internal/usecase/backup"
)

func provideLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	return logger.New(cfg.Log, out)
}

func provideDeckRepository(cfg *config.Config) (repository.DeckRepository, error) {
	return adapterrepo.NewDeckRepository(cfg.Storage.Driver, cfg.Deck.File, time.Now)
}

func provideDeckUsecase(repo repository.DeckRepository, log *logrus.Logger, cfg *config.Config) usecase.DeckUsecase {
	return usecase.NewDeckUsecase(repo, usecase.WithLogger(log.WithField("driver", cfg.Storage.Driver)))
}

func provideBackupService(log *logrus.Logger) (*backup.Service, error) {
	return backup.NewService(adapterrepo.NewDeckCodec(time.Now), backup.WithLogger(log))
}
