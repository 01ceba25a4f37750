/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/flashcard/internal/infrastructure/config"
	"github.com/eslsoft/flashcard/internal/infrastructure/logger"
)

const (
	deckFileKey      = "deck.file"
	storageDriverKey = "storage.driver"
	logLevelKey      = "log.level"
	logFormatKey     = "log.format"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flashcard",
	Short: "A CLI flashcard application",
	Long: `flashcard keeps a deck of question/answer cards in a local file and
quizzes you on them in random order, tracking how well you know each card.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// reportError logs a failed invocation with the configured log level and
// format, falling back to a plain text logger when the config itself is broken.
func reportError(out io.Writer, err error) {
	var log logrus.FieldLogger
	if cfg, cfgErr := config.Load(); cfgErr == nil {
		if configured, logErr := logger.New(cfg.Log, out); logErr == nil {
			log = configured
		}
	}
	if log == nil {
		fallback := logrus.New()
		fallback.SetOutput(out)
		fallback.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log = fallback
	}
	log.WithError(err).Error("flashcard failed")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.flashcard.yaml or $HOME/.flashcard.yaml)")
	rootCmd.PersistentFlags().StringP("file", "f", "flashcards.json", "path to the flashcards file")
	rootCmd.PersistentFlags().String("storage", "json", "storage driver: json or sqlite3")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text or json)")

	bindFlagToViper(deckFileKey, rootCmd.PersistentFlags().Lookup("file"))
	bindFlagToViper(storageDriverKey, rootCmd.PersistentFlags().Lookup("storage"))
	bindFlagToViper(logLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlagToViper(logFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))
}
