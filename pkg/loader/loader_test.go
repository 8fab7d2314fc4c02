package loader

import (
	"errors"
	"testing"
)

func TestParseUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"notes.txt", "slides.pptx", "archive"} {
		_, err := Parse([]byte("content"), name)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("Parse(%q): got %v, expected ErrUnsupportedType", name, err)
		}
	}
}

func TestParseCorruptPDF(t *testing.T) {
	if _, err := Parse([]byte("not a pdf"), "broken.pdf"); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestParseCorruptDocx(t *testing.T) {
	if _, err := Parse([]byte("not a docx"), "broken.docx"); err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}
