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
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/eslsoft/flashcard/internal/usecase/quiz"
)

const quizSeedKey = "quiz.seed"

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Start a quiz session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newDeckEnv(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		opts := []quiz.Option{quiz.WithLogger(env.Logger)}
		if seed := env.Config.Quiz.Seed; seed != 0 {
			opts = append(opts, quiz.WithShuffler(rand.New(rand.NewPCG(seed, seed))))
		}
		session := quiz.NewSession(cmd.InOrStdin(), out, opts...)

		result, err := env.Decks.Quiz(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("quiz: %w", err)
		}
		if result.Outcome == quiz.OutcomeNothingToQuiz {
			fmt.Fprintln(out, "No flashcards to quiz! Add some first.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().Uint64("seed", 0, "shuffle seed for a reproducible card order (0 picks a random order)")

	bindFlagToViper(quizSeedKey, quizCmd.Flags().Lookup("seed"))
}
