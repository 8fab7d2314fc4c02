package clean

import (
	"strings"
	"testing"
)

func TestCleanEscapeArtifacts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short uni escape",
			input:    "deep /uni0041learning",
			expected: "deep learning",
		},
		{
			name:     "long glued uni escape",
			input:    "graph/uni0041004200430044s",
			expected: "graphs",
		},
		{
			name:     "digit run interleaved with escapes",
			input:    "result 12/uni00310032345shown",
			expected: "result shown",
		},
		{
			name:     "digit run leading an escape",
			input:    "fig 45678/uni0032done",
			expected: "fig done",
		},
		{
			name:     "short interleaved digits survive",
			input:    "eq 12/uni00310032shown",
			expected: "eq 12shown",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Clean(test.input)
			if got != test.expected {
				t.Fatalf("Clean(%q) = %q, expected %q", test.input, got, test.expected)
			}
		})
	}
}

func TestCleanControlAndDigits(t *testing.T) {
	input := "hello\x00\x01world 123456789end"
	got := Clean(input)
	if got != "helloworld end" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanKeepsTabsAndNewlines(t *testing.T) {
	input := "a\tb\nc"
	if got := Clean(input); got != input {
		t.Fatalf("got %q, expected input unchanged", got)
	}
}

func TestCleanPageBoilerplate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"intro 第 3 页outro", "intro outro"},
		{"intro Page 3 of 12outro", "intro outro"},
		{"intro page 7outro", "intro outro"},
	}

	for _, test := range tests {
		if got := Clean(test.input); got != test.expected {
			t.Fatalf("Clean(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	input := "a\n\n\n\n\nb    c"
	got := Clean(input)
	if got != "a\n\nb c" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanInvalidUTF8(t *testing.T) {
	input := "ok\xed\xa0\x80text"
	got := Clean(input)
	if !strings.Contains(got, "ok") || !strings.Contains(got, "text") {
		t.Fatalf("got %q", got)
	}
	for _, r := range got {
		if r == 0xFFFD {
			t.Fatalf("replacement rune left in output %q", got)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	input := "Intro /uni0041 text 12345\n\n\n\nPage 2 of 9 more   words"
	once := Clean(input)
	twice := Clean(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}
