package ai

import (
	"reflect"
	"testing"
)

func TestParseEntityRecordPlainJSON(t *testing.T) {
	response := `{"keywords": ["graph rag"], "methods": ["Transformer"], "fields": [], "datasets": [], "applications": []}`
	record := ParseEntityRecord(response)
	if !reflect.DeepEqual(record.Keywords, []string{"graph rag"}) {
		t.Fatalf("keywords = %v", record.Keywords)
	}
	if !reflect.DeepEqual(record.Methods, []string{"Transformer"}) {
		t.Fatalf("methods = %v", record.Methods)
	}
}

func TestParseEntityRecordCodeFence(t *testing.T) {
	response := "```json\n{\"keywords\": [\"向量检索\"], \"methods\": [], \"fields\": [], \"datasets\": [], \"applications\": []}\n```"
	record := ParseEntityRecord(response)
	if !reflect.DeepEqual(record.Keywords, []string{"向量检索"}) {
		t.Fatalf("keywords = %v", record.Keywords)
	}
}

func TestParseEntityRecordEmbeddedObject(t *testing.T) {
	response := `Sure! Here are the entities you asked for:
{"keywords": ["retrieval"], "methods": ["RAG"], "fields": [], "datasets": [], "applications": []}
Let me know if you need anything else.`
	record := ParseEntityRecord(response)
	if !reflect.DeepEqual(record.Methods, []string{"RAG"}) {
		t.Fatalf("methods = %v", record.Methods)
	}
}

func TestParseEntityRecordGarbage(t *testing.T) {
	record := ParseEntityRecord("I could not find any entities, sorry.")
	if !record.IsEmpty() {
		t.Fatalf("expected empty record, got %+v", record)
	}
}

func TestParseEntityRecordDropsBlankEntries(t *testing.T) {
	response := `{"keywords": ["  ", "graphs", ""], "methods": [], "fields": [], "datasets": [], "applications": []}`
	record := ParseEntityRecord(response)
	if !reflect.DeepEqual(record.Keywords, []string{"graphs"}) {
		t.Fatalf("keywords = %v", record.Keywords)
	}
}

func TestParseEntityRecordEnforcesCaps(t *testing.T) {
	response := `{"keywords": ["k1","k2","k3","k4","k5","k6","k7","k8","k9","k10"], "methods": [], "fields": [], "datasets": [], "applications": []}`
	record := ParseEntityRecord(response)
	if len(record.Keywords) != MaxKeywordsPerDoc {
		t.Fatalf("keyword count = %d, expected %d", len(record.Keywords), MaxKeywordsPerDoc)
	}
}

func TestFirstBalancedObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"nested", `before {"a": {"b": 2}} after`, `{"a": {"b": 2}}`},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`},
		{"no object", "nothing here", ""},
		{"unbalanced", `{"a": 1`, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := firstBalancedObject(test.input); got != test.expected {
				t.Fatalf("got %q, expected %q", got, test.expected)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := stripCodeFence(test.input); got != test.expected {
				t.Fatalf("got %q, expected %q", got, test.expected)
			}
		})
	}
}
