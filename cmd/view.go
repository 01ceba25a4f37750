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
	"io"

	"github.com/spf13/cobra"

	"github.com/eslsoft/flashcard/internal/entity"
)

var viewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View a specific flashcard by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCardID(args[0])
		if err != nil {
			return err
		}
		env, err := newDeckEnv(cmd)
		if err != nil {
			return err
		}
		card, ok, err := env.Decks.GetCard(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("view flashcard: %w", err)
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Flashcard #%d not found.\n", id)
			return nil
		}
		printCard(cmd.OutOrStdout(), card)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func printCard(out io.Writer, card entity.Flashcard) {
	m := card.Metadata
	fmt.Fprintf(out, "Flashcard #%d:\n", card.ID)
	fmt.Fprintf(out, "Question: %s\n", card.Question)
	fmt.Fprintf(out, "Answer: %s\n\n", card.Answer)
	fmt.Fprintln(out, "Statistics:")
	fmt.Fprintf(out, "   Difficulty: %s\n", m.Difficulty)
	fmt.Fprintf(out, "   Times reviewed: %d\n", m.TimesReviewed)
	fmt.Fprintf(out, "   Correct answers: %d\n", m.CorrectCount)
	if !m.Reviewed() {
		fmt.Fprintln(out, "   Success rate: Not yet reviewed")
		return
	}
	fmt.Fprintf(out, "   Success rate: %.1f%%\n", m.SuccessRate())
	fmt.Fprintf(out, "   Last reviewed: %s\n", lastReviewed(m))
}
