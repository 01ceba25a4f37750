package usecase

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/eslsoft/flashcard/internal/entity"
	"github.com/eslsoft/flashcard/internal/repository"
	"github.com/eslsoft/flashcard/pkg/filterexpr"
)

var cardFilterFields = map[string]filterexpr.FieldRule{
	"difficulty":     {Kind: filterexpr.KindString, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN}},
	"question":       {Kind: filterexpr.KindString, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpSW}},
	"answer":         {Kind: filterexpr.KindString, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpSW}},
	"last_reviewed":  {Kind: filterexpr.KindString, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpGTE, filterexpr.OpLTE}},
	"id":             {Kind: filterexpr.KindNumber, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpGTE, filterexpr.OpLTE}},
	"times_reviewed": {Kind: filterexpr.KindNumber, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpGTE, filterexpr.OpLTE}},
	"correct_count":  {Kind: filterexpr.KindNumber, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpGTE, filterexpr.OpLTE}},
	"success_rate":   {Kind: filterexpr.KindNumber, Ops: []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE}},
}

var cardOrderSchema = filterexpr.OrderSchema{
	Default:  filterexpr.OrderKey{Field: "id"},
	Fallback: filterexpr.OrderKey{Field: "id"},
	Fields:   []string{"id", "times_reviewed", "correct_count", "success_rate", "last_reviewed"},
}

type cardSelection struct {
	preds []filterexpr.Predicate
	order []filterexpr.OrderKey
}

func parseCardQuery(query *repository.ListCardsQuery) (cardSelection, error) {
	preds, err := filterexpr.Parse(query.GetFilter(), cardFilterFields)
	if err != nil {
		return cardSelection{}, fmt.Errorf("filter: %w", err)
	}
	for i := range preds {
		if preds[i].Field != "difficulty" {
			continue
		}
		if preds[i], err = canonicalDifficulty(preds[i]); err != nil {
			return cardSelection{}, fmt.Errorf("filter: %w", err)
		}
	}
	order, err := filterexpr.ParseOrderBy(query.GetOrderBy(), cardOrderSchema)
	if err != nil {
		return cardSelection{}, fmt.Errorf("order_by: %w", err)
	}
	return cardSelection{preds: preds, order: order}, nil
}

func (s cardSelection) apply(cards []entity.Flashcard) []entity.Flashcard {
	selected := lo.Filter(cards, func(c entity.Flashcard, _ int) bool {
		return filterexpr.MatchAll(s.preds, func(field string) any { return cardField(c, field) })
	})
	slices.SortStableFunc(selected, func(a, b entity.Flashcard) int {
		for _, key := range s.order {
			c := compareField(cardField(a, key.Field), cardField(b, key.Field))
			if key.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return selected
}

// canonicalDifficulty validates difficulty literals and rewrites them to their
// stored spelling, so 'hard' matches Hard.
func canonicalDifficulty(p filterexpr.Predicate) (filterexpr.Predicate, error) {
	switch v := p.Value.(type) {
	case string:
		d, err := entity.ParseDifficulty(v)
		if err != nil {
			return p, err
		}
		p.Value = string(d)
	case []string:
		names := make([]string, 0, len(v))
		for _, raw := range v {
			d, err := entity.ParseDifficulty(raw)
			if err != nil {
				return p, err
			}
			names = append(names, string(d))
		}
		p.Value = names
	}
	return p, nil
}

func cardField(c entity.Flashcard, field string) any {
	switch field {
	case "id":
		return float64(c.ID)
	case "difficulty":
		return string(c.Metadata.Difficulty)
	case "question":
		return c.Question
	case "answer":
		return c.Answer
	case "last_reviewed":
		return c.Metadata.LastReviewed
	case "times_reviewed":
		return float64(c.Metadata.TimesReviewed)
	case "correct_count":
		return float64(c.Metadata.CorrectCount)
	case "success_rate":
		return c.Metadata.SuccessRate()
	default:
		return nil
	}
}

func compareField(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		return cmp.Compare(av, bv)
	case string:
		bv, _ := b.(string)
		return cmp.Compare(av, bv)
	default:
		return 0
	}
}
