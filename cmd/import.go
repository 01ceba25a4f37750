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
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/flashcard/internal/usecase/backup"
)

const (
	importInputKey = "backup.import.input"
	importGzipKey  = "backup.import.gzip"
	importModeKey  = "backup.import.mode"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import flashcards from an exported JSON document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		env, err := newDeckEnv(cmd)
		if err != nil {
			return err
		}

		inputPath := viper.GetString(importInputKey)
		gzipEnabled := viper.GetBool(importGzipKey)
		skipPrompt, _ := cmd.Flags().GetBool("yes")

		if inputPath == "" {
			return errors.New("specify the document with --input, or - for standard input")
		}
		if !gzipEnabled && inputPath != "-" && strings.HasSuffix(strings.ToLower(inputPath), ".gz") {
			gzipEnabled = true
		}
		mode, err := backup.ParseMode(viper.GetString(importModeKey))
		if err != nil {
			return err
		}

		current, err := env.Decks.Open(ctx)
		if err != nil {
			return fmt.Errorf("load deck: %w", err)
		}

		out := cmd.OutOrStdout()
		if mode == backup.ModeReplace && current.Len() > 0 && !skipPrompt {
			if inputPath == "-" {
				return errors.New("replacing from standard input requires --yes")
			}
			prompt := fmt.Sprintf("Replace all %d flashcards in %s? (y/N): ", current.Len(), env.Config.Deck.File)
			ok, confirmErr := confirm(cmd.InOrStdin(), out, prompt)
			if confirmErr != nil {
				return confirmErr
			}
			if !ok {
				fmt.Fprintln(out, "Import cancelled.")
				return nil
			}
		}

		var (
			reader  = cmd.InOrStdin()
			closers []func() error
		)

		if inputPath != "-" {
			file, openErr := os.Open(filepath.Clean(inputPath))
			if openErr != nil {
				return fmt.Errorf("open import file: %w", openErr)
			}
			reader = file
			closers = append(closers, file.Close)
		}

		defer func() {
			for _, closer := range closers {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		if gzipEnabled {
			gzr, gzErr := gzip.NewReader(reader)
			if gzErr != nil {
				return fmt.Errorf("create gzip reader: %w", gzErr)
			}
			reader = gzr
			closers = append([]func() error{gzr.Close}, closers...)
		}

		deck, report, err := env.Backup.Import(ctx, reader, current, backup.WithMode(mode))
		if err != nil {
			return err
		}
		if err := env.Decks.Save(ctx, deck); err != nil {
			return fmt.Errorf("save deck: %w", err)
		}

		fmt.Fprintf(out, "Imported %d flashcards (%s", report.Imported, report.Mode)
		if report.Skipped > 0 {
			fmt.Fprintf(out, ", %d duplicates skipped", report.Skipped)
		}
		fmt.Fprintln(out, ")")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "document path, - for standard input")
	importCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	importCmd.Flags().String("mode", string(backup.ModeMerge), "merge appends new cards, replace swaps the whole deck")
	importCmd.Flags().BoolP("yes", "y", false, "replace without asking for confirmation")

	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importGzipKey, importCmd.Flags().Lookup("gzip"))
	bindFlagToViper(importModeKey, importCmd.Flags().Lookup("mode"))
}
