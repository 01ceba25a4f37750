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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/flashcard/internal/usecase"
)

const resetPrompt = "Are you sure you want to reset all statistics? This cannot be undone. (y/N): "

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all card statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newDeckEnv(cmd)
		if err != nil {
			return err
		}
		skipPrompt, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		var confirmer usecase.Confirmer
		if !skipPrompt {
			confirmer = func() (bool, error) {
				return confirm(cmd.InOrStdin(), out, resetPrompt)
			}
		}
		outcome, err := env.Decks.ResetStats(cmd.Context(), confirmer)
		if err != nil {
			return fmt.Errorf("reset statistics: %w", err)
		}
		switch outcome {
		case usecase.ResetEmptyDeck:
			fmt.Fprintln(out, "No flashcards to reset.")
		case usecase.ResetCancelled:
			fmt.Fprintln(out, "Reset cancelled.")
		case usecase.ResetDone:
			fmt.Fprintln(out, "Reset all flashcard statistics.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolP("yes", "y", false, "reset without asking for confirmation")
}
