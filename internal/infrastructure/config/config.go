package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the flashcard CLI.
type Config struct {
	Deck    DeckConfig    `mapstructure:"deck"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
}

// DeckConfig locates the deck.
type DeckConfig struct {
	File string `mapstructure:"file"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// QuizConfig tunes quiz sessions. A zero seed means a random order on every run.
type QuizConfig struct {
	Seed uint64 `mapstructure:"seed"`
}

// Load reads configuration from defaults, an optional config file, the
// environment and any flags already bound to viper.
func Load() (*Config, error) {
	if viper.ConfigFileUsed() == "" {
		viper.SetConfigName(".flashcard")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	setDefaults()

	viper.SetEnvPrefix("flashcard")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if strings.TrimSpace(config.Deck.File) == "" {
		return nil, errors.New("deck.file must not be empty")
	}
	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("deck.file", "flashcards.json")
	viper.SetDefault("storage.driver", "json")

	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("quiz.seed", 0)
}
