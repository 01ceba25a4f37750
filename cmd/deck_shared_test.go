package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestPreviewQuestion(t *testing.T) {
	cases := []struct{ in, want string }{
		{"short", "short"},
		{"What is the capital city of Australia?", "What is the capital city of Au"},
		{"exactly thirty characters long", "exactly thirty characters long"},
		{"  padded  ", "padded"},
		{"abcdefghijklmnopqrstuvwxyz123 tail", "abcdefghijklmnopqrstuvwxyz123"},
		{"ñandú ñandú ñandú ñandú ñandú ñandú", "ñandú ñandú ñandú ñandú ñandú"},
	}
	for _, c := range cases {
		if got := previewQuestion(c.in); got != c.want {
			t.Fatalf("previewQuestion(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"  Y  \n", true},
		{"y", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, c := range cases {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(c.input), &out, "sure? (y/N): ")
		if err != nil {
			t.Fatalf("confirm(%q) error: %v", c.input, err)
		}
		if got != c.want {
			t.Fatalf("confirm(%q) = %v want %v", c.input, got, c.want)
		}
		if out.String() != "sure? (y/N): " {
			t.Fatalf("prompt not written: %q", out.String())
		}
	}
}

func TestParseCardID(t *testing.T) {
	if id, err := parseCardID("42"); err != nil || id != 42 {
		t.Fatalf("parseCardID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "-1", "abc", "4294967296"} {
		if _, err := parseCardID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
