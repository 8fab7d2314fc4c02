package graph

import (
	"testing"

	"github.com/papermind-ai/papermind/pkg/common"
)

func TestNormalizeCJKAnnotationWins(t *testing.T) {
	bare := "OLAF"
	annotated := "OLAF (在线学习与反馈)"

	tests := []struct {
		name  string
		order []string
	}{
		{"bare first", []string{bare, annotated}},
		{"annotated first", []string{annotated, bare}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			registry := newCanonicalRegistry()
			var last string
			for _, form := range test.order {
				last = registry.Normalize(form)
			}
			if last != annotated {
				t.Fatalf("got %q, expected %q", last, annotated)
			}
		})
	}
}

func TestNormalizeTiesKeepExisting(t *testing.T) {
	registry := newCanonicalRegistry()
	first := registry.Normalize("Bert")
	second := registry.Normalize("BERT")
	if first != "Bert" || second != "Bert" {
		t.Fatalf("tie did not keep first form: %q, %q", first, second)
	}
}

func TestNormalizeAnnotatedFormWins(t *testing.T) {
	registry := newCanonicalRegistry()
	registry.Normalize("RAG")
	annotated := "RAG (Retrieval-Augmented Generation)"
	if got := registry.Normalize(annotated); got != annotated {
		t.Fatalf("got %q", got)
	}
	// The bare form now resolves to the richer one.
	if resolved := registry.Normalize("RAG"); resolved != annotated {
		t.Fatalf("got %q", resolved)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	registry := newCanonicalRegistry()
	if got := registry.Normalize("   "); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OLAF (在线学习与反馈)", "olaf"},
		{"Transformer", "transformer"},
		{"BERT [base]", "bert"},
		{"知识图谱（KG）", "知识图谱"},
		{"检索增强【RAG】", "检索增强"},
	}

	for _, test := range tests {
		if got := baseName(test.input); got != test.expected {
			t.Fatalf("baseName(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestLookupLeavesRegistryUnchanged(t *testing.T) {
	registry := newCanonicalRegistry()
	annotated := "RAG (retrieval augmented generation)"
	registry.Normalize(annotated)

	if got := registry.lookup("rag"); got != annotated {
		t.Fatalf("lookup = %q, expected %q", got, annotated)
	}
	if got := registry.lookup("graph attention"); got != "graph attention" {
		t.Fatalf("unseen lookup = %q", got)
	}
	if len(registry.forms) != 1 {
		t.Fatalf("lookup grew the registry to %d entries", len(registry.forms))
	}
}

func TestCanonicalForDoesNotRegister(t *testing.T) {
	builder := NewBuilder()
	builder.AddDocument("a.pdf", &common.EntityRecord{
		Methods: []string{"OLAF (在线学习与反馈)"},
	})

	canonical := builder.CanonicalFor("olaf")
	if canonical != "OLAF (在线学习与反馈)" {
		t.Fatalf("CanonicalFor = %q", canonical)
	}
	if sources := builder.EntitySources(canonical); len(sources) != 1 {
		t.Fatalf("sources = %v", sources)
	}
	// A later registration must still treat the queried surface form
	// as unseen.
	if got := builder.CanonicalFor("transformer"); got != "transformer" {
		t.Fatalf("unseen CanonicalFor = %q", got)
	}
	builder.mu.Lock()
	_, seen := builder.canonical.forms["transformer"]
	builder.mu.Unlock()
	if seen {
		t.Fatal("read path registered an unseen entity")
	}
}

func TestFormScore(t *testing.T) {
	bare := formScore("OLAF")
	annotated := formScore("OLAF (在线学习与反馈)")
	if annotated <= bare {
		t.Fatalf("annotated score %d not above bare score %d", annotated, bare)
	}
	if bare != 4 {
		t.Fatalf("bare score = %d, expected 4", bare)
	}
}
