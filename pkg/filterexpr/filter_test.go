package filterexpr

import (
	"slices"
	"strings"
	"testing"
)

var cardFields = map[string]FieldRule{
	"difficulty":     {Kind: KindString, Ops: []Op{OpEQ, OpIN}},
	"question":       {Kind: KindString, Ops: []Op{OpSW}},
	"times_reviewed": {Kind: KindNumber, Ops: []Op{OpGTE, OpLTE, OpEQ}},
}

func TestParse_Conjunction(t *testing.T) {
	preds, err := Parse("difficulty == 'Hard' && times_reviewed >= 2 && question.startsWith('Cap')", cardFields)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predicates, got %d: %+v", len(preds), preds)
	}
	if preds[0].Field != "difficulty" || preds[0].Op != OpEQ || preds[0].Value != "Hard" {
		t.Fatalf("bad first predicate: %+v", preds[0])
	}
	if preds[1].Field != "times_reviewed" || preds[1].Op != OpGTE || preds[1].Value != float64(2) {
		t.Fatalf("bad second predicate: %+v", preds[1])
	}
	if preds[2].Field != "question" || preds[2].Op != OpSW || preds[2].Value != "Cap" {
		t.Fatalf("bad third predicate: %+v", preds[2])
	}
}

func TestParse_InList(t *testing.T) {
	preds, err := Parse("difficulty in ['Easy', 'Medium']", cardFields)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(preds) != 1 || preds[0].Op != OpIN {
		t.Fatalf("unexpected predicates: %+v", preds)
	}
	if got := preds[0].Value.([]string); !slices.Equal(got, []string{"Easy", "Medium"}) {
		t.Fatalf("unexpected list: %v", got)
	}
}

func TestParse_Empty(t *testing.T) {
	preds, err := Parse("   ", cardFields)
	if err != nil || preds != nil {
		t.Fatalf("expected no predicates, got %+v, %v", preds, err)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"difficulty == 'Hard' || difficulty == 'Easy'": "only AND",
		"answer == 'x'":                  "not allowed",
		"question == 'x'":                "operator",
		"times_reviewed >= 'many'":       "expected number",
		"difficulty == 3":                "expected string",
		"difficulty in []":               "must not be empty",
		"times_reviewed > 2":             "not supported",
		"difficulty ==":                  "invalid filter",
	}
	for filter, want := range cases {
		_, err := Parse(filter, cardFields)
		if err == nil {
			t.Fatalf("%q: expected error", filter)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("%q: expected error containing %q, got %v", filter, want, err)
		}
	}
}

func TestMatchAll(t *testing.T) {
	preds, err := Parse("difficulty in ['Hard'] && times_reviewed <= 3 && question.startsWith('Ca')", cardFields)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	record := map[string]any{"difficulty": "Hard", "times_reviewed": float64(3), "question": "Capital?"}
	if !MatchAll(preds, func(f string) any { return record[f] }) {
		t.Fatal("expected record to match")
	}
	record["times_reviewed"] = float64(4)
	if MatchAll(preds, func(f string) any { return record[f] }) {
		t.Fatal("expected record not to match")
	}
	if !MatchAll(nil, func(string) any { return nil }) {
		t.Fatal("no predicates should match everything")
	}
}

func TestParseOrderBy(t *testing.T) {
	schema := OrderSchema{
		Default:  OrderKey{Field: "id"},
		Fallback: OrderKey{Field: "id"},
		Fields:   []string{"id", "times_reviewed", "success_rate"},
	}

	keys, err := ParseOrderBy("", schema)
	if err != nil || !slices.Equal(keys, []OrderKey{{Field: "id"}}) {
		t.Fatalf("default order: got %+v, %v", keys, err)
	}

	keys, err = ParseOrderBy("success_rate desc", schema)
	if err != nil || !slices.Equal(keys, []OrderKey{{Field: "success_rate", Desc: true}, {Field: "id"}}) {
		t.Fatalf("single key: got %+v, %v", keys, err)
	}

	keys, err = ParseOrderBy("times_reviewed desc, id desc", schema)
	if err != nil || !slices.Equal(keys, []OrderKey{{Field: "times_reviewed", Desc: true}, {Field: "id", Desc: true}}) {
		t.Fatalf("two keys: got %+v, %v", keys, err)
	}

	for _, bad := range []string{"answer", "id sideways", "id, id", "id asc extra", "id, times_reviewed, success_rate"} {
		if _, err := ParseOrderBy(bad, schema); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}
