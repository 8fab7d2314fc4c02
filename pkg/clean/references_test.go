package clean

import (
	"testing"

	"github.com/papermind-ai/papermind/pkg/common"
)

func page(number int, text string) common.Page {
	return common.Page{Text: text, PageNumber: number, SourceFile: "paper.pdf"}
}

func TestTruncateReferences(t *testing.T) {
	pages := []common.Page{
		page(1, "Introduction\nWe study transformer models."),
		page(2, "Conclusion\nREFERENCES\n[1] Vaswani et al."),
		page(3, "Appendix A\nExtra material."),
	}

	got := TruncateReferences(pages)
	if len(got) != 1 {
		t.Fatalf("expected 1 page, got %d", len(got))
	}
	if got[0].PageNumber != 1 {
		t.Fatalf("expected page 1, got %d", got[0].PageNumber)
	}
}

func TestTruncateReferencesHeadingVariants(t *testing.T) {
	tests := []struct {
		name    string
		heading string
	}{
		{"plain", "References"},
		{"uppercase", "BIBLIOGRAPHY"},
		{"singular", "Reference"},
		{"chinese", "参考文献"},
		{"numbered", "7. References"},
		{"roman", "VII. References"},
		{"bracketed", "[7] References"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pages := []common.Page{
				page(1, "Body text."),
				page(2, test.heading+"\n[1] Someone 2020."),
			}
			got := TruncateReferences(pages)
			if len(got) != 1 {
				t.Fatalf("heading %q not detected", test.heading)
			}
		})
	}
}

func TestTruncateReferencesIgnoresDeepLines(t *testing.T) {
	deep := "line\nline\nline\nline\nline\nline\nline\nline\nline\nline\nReferences"
	pages := []common.Page{page(1, "Body."), page(2, deep)}
	got := TruncateReferences(pages)
	if len(got) != 2 {
		t.Fatalf("heading below scan window should be ignored, got %d pages", len(got))
	}
}

func TestTruncateReferencesNoHeading(t *testing.T) {
	pages := []common.Page{page(1, "Body."), page(2, "More body.")}
	got := TruncateReferences(pages)
	if len(got) != 2 {
		t.Fatalf("expected all pages kept, got %d", len(got))
	}
}

func TestTruncateReferencesIdempotent(t *testing.T) {
	pages := []common.Page{
		page(1, "Body."),
		page(2, "References\n[1] A."),
	}
	once := TruncateReferences(pages)
	twice := TruncateReferences(once)
	if len(once) != len(twice) {
		t.Fatalf("not idempotent: %d vs %d", len(once), len(twice))
	}
}

func TestTruncateReferencesHeadingOnFirstPage(t *testing.T) {
	pages := []common.Page{page(1, "References\n[1] A.")}
	got := TruncateReferences(pages)
	if len(got) != 0 {
		t.Fatalf("expected no pages, got %d", len(got))
	}
}

func TestIsReferenceHeadingRejectsProse(t *testing.T) {
	for _, line := range []string{
		"We list our references below.",
		"see the bibliography for details",
		"References to prior work are numerous.",
	} {
		if isReferenceHeading(line) {
			t.Fatalf("prose line %q misclassified as heading", line)
		}
	}
}
