package chunk

import (
	"strings"
	"testing"
)

func TestClassifyTooShort(t *testing.T) {
	classifier := NewClassifier()

	short := strings.Repeat("a", 99)
	noise, reason := classifier.Classify(short)
	if !noise || reason != ReasonTooShort {
		t.Fatalf("99 chars: got noise=%v reason=%q", noise, reason)
	}

	prose := "The proposed method improves retrieval quality by combining dense embeddings with a graph prior over them."
	if len([]rune(prose)) < 100 {
		t.Fatalf("test fixture too short: %d", len([]rune(prose)))
	}
	noise, reason = classifier.Classify(prose)
	if noise {
		t.Fatalf("ordinary prose misclassified as %q", reason)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	classifier := NewClassifier()
	noise, reason := classifier.Classify("")
	if !noise || reason != ReasonTooShort {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyAuthorList(t *testing.T) {
	names := []string{
		"A. Smith", "B. Jones", "C. Lee", "D. Park", "E. Kim", "F. Choi",
		"G. Park", "H. Yoon", "I. Chen", "J. Wang", "K. Liu", "L. Zhang",
		"M. Zhao", "N. Sun", "O. Gao", "P. Wu", "Q. Xu", "R. Han",
	}
	text := strings.Join(names, ", ")
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonAuthorList {
		t.Fatalf("18-name list: got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyLowSignal(t *testing.T) {
	text := strings.Repeat("@#$%^&* ", 15)
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonLowSignal {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyReferenceList(t *testing.T) {
	text := "J. Smith and K. Jones and L. Brown. Attention models revisited. " +
		"In Proceedings of the Conference on Learning Systems, pp. 12-18 and pp. 22-30."
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonReferenceList {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyTitlePage(t *testing.T) {
	text := "Deep Graph Learning for Robotic Manipulation\n" +
		"Alice Smith1 and Bob Jones2\n" +
		"1University of Somewhere\n" +
		"contact: asmith@example.edu for correspondence about this work"
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonTitlePage {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyFigureTable(t *testing.T) {
	text := "Figure 3 compares accuracy across datasets while Table 2 reports latency. " +
		"Best results: 0.91 0.88 0.75 across three random seeds on the held out split."
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonFigureTable {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyAcknowledgment(t *testing.T) {
	text := "This work was supported by the National Science Foundation under Grant No. IIS12345 " +
		"and computational resources were provided by the university cluster."
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonAcknowledgment {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyGrantTokenAlone(t *testing.T) {
	// A grant-shaped token scores 2 on its own, without any funding keyword.
	text := "The experiments described in this section used the shared campus computing " +
		"facilities made available under award ABCD12345 during the final project phase."
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonAcknowledgment {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyConfigDump(t *testing.T) {
	text := "joint_name: shoulder lift\nlink_mass: 2.75\ndamping_value: 0.4\n" +
		"joint_limit: 3.14\nrobot description exported from the simulator model file"
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonConfigDump {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyKeyValueDense(t *testing.T) {
	var lines []string
	for _, key := range []string{"name", "size", "rate", "mode", "seed", "step",
		"loss", "node", "path", "port", "host", "user"} {
		lines = append(lines, key+": value")
	}
	text := strings.Join(lines, "\n")
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonKeyValue {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyDegenerateRepetition(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("joint_1 joint_2 joint_3 ", 12))
	classifier := NewClassifier()
	noise, reason := classifier.Classify(text)
	if !noise || reason != ReasonRepetition {
		t.Fatalf("got noise=%v reason=%q", noise, reason)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	classifier := NewClassifier()
	text := strings.Repeat("joint_1 joint_2 joint_3 ", 12)
	first, firstReason := classifier.Classify(text)
	second, secondReason := classifier.Classify(text)
	if first != second || firstReason != secondReason {
		t.Fatalf("classification not deterministic: (%v,%q) vs (%v,%q)",
			first, firstReason, second, secondReason)
	}
}
