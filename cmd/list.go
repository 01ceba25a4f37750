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
	"github.com/spf13/viper"

	"github.com/eslsoft/flashcard/internal/entity"
	"github.com/eslsoft/flashcard/internal/repository"
)

const (
	listFilterKey  = "list.filter"
	listOrderByKey = "list.order_by"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all flashcards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newDeckEnv(cmd)
		if err != nil {
			return err
		}
		query := &repository.ListCardsQuery{FilterOrder: repository.FilterOrder{
			Filter:  viper.GetString(listFilterKey),
			OrderBy: viper.GetString(listOrderByKey),
		}}
		cards, stats, err := env.Decks.ListCards(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("list flashcards: %w", err)
		}
		printCardList(cmd.OutOrStdout(), cards, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("filter", "", "CEL filter, e.g. \"difficulty == 'Hard' && times_reviewed >= 1\"")
	listCmd.Flags().String("order-by", "", "ordering, e.g. \"success_rate asc, id desc\" (default id)")

	bindFlagToViper(listFilterKey, listCmd.Flags().Lookup("filter"))
	bindFlagToViper(listOrderByKey, listCmd.Flags().Lookup("order-by"))
}

func printCardList(out io.Writer, cards []entity.Flashcard, stats entity.DeckStats) {
	if stats.TotalCards == 0 {
		fmt.Fprintln(out, "No flashcards found. Add some with 'flashcard add <question> <answer>'")
		return
	}
	fmt.Fprintf(out, "Flashcards in deck (%d):\n", stats.TotalCards)
	if len(cards) == 0 {
		fmt.Fprintln(out, "No flashcards match the filter.")
	}
	for _, card := range cards {
		m := card.Metadata
		fmt.Fprintf(out, "#%d %s [%s] Success: %.0f%% (%d/%d)\n",
			card.ID, m.Difficulty, previewQuestion(card.Question), m.SuccessRate(), m.CorrectCount, m.TimesReviewed)
		if m.Reviewed() {
			fmt.Fprintf(out, "    Last reviewed: %s\n", lastReviewed(m))
		}
		fmt.Fprintln(out)
	}
	printDeckStats(out, stats)
}

func printDeckStats(out io.Writer, stats entity.DeckStats) {
	fmt.Fprintln(out, "Deck Statistics:")
	fmt.Fprintf(out, "   Total cards: %d\n", stats.TotalCards)
	fmt.Fprintf(out, "   Total reviews: %d\n", stats.TotalReviews)
	fmt.Fprintf(out, "   Overall success rate: %.1f%%\n", stats.SuccessRate())
}

func lastReviewed(m entity.CardMetadata) string {
	if m.LastReviewed == "" {
		return "Never"
	}
	return m.LastReviewed
}
