package tags

import (
	"strings"
	"testing"
)

func TestClassifyKnownLabels(t *testing.T) {
	tests := []struct {
		label    string
		expected Kind
	}{
		{"Rating:", Rating},
		{"Archive Warnings:", ArchiveWarnings},
		{"Archive Warning:", ArchiveWarnings},
		{"Categories:", Categories},
		{"Category:", Categories},
		{"Fandoms:", Fandoms},
		{"Relationships:", Relationships},
		{"Characters:", Characters},
		{"Additional Tags:", AdditionalTags},
		{"Language:", Language},
		{"Series:", Series},
		{"Stats:", Stats},
	}

	variants := []func(string) string{
		func(s string) string { return s },
		strings.ToUpper,
		strings.ToLower,
		func(s string) string { return "  " + s + "\t\n" },
	}

	for _, tt := range tests {
		for i, v := range variants {
			label := v(tt.label)
			if got := Classify(label); got != tt.expected {
				t.Errorf("variant %d: Classify(%q) = %s, expected %s", i, label, got, tt.expected)
			}
		}
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		label    string
		expected Kind
	}{
		// rating is tried before every other pattern
		{"Fandom Rating", Rating},
		// relationship is tried before character
		{"Character Relationships", Relationships},
		// language is tried before stats
		{"Language Stats", Language},
		// a bare "tags" label is not additional tags
		{"Tags:", Unknown("Tags:")},
	}

	for _, tt := range tests {
		if got := Classify(tt.label); got != tt.expected {
			t.Errorf("Classify(%q) = %s, expected %s", tt.label, got, tt.expected)
		}
	}
}

func TestClassifyUnknownKeepsLabel(t *testing.T) {
	labels := []string{"Collections:", "  Summary  ", "", "Warnings without archive"}

	for _, label := range labels {
		got := Classify(label)
		if !got.IsUnknown() {
			t.Errorf("Classify(%q) = %s, expected unknown", label, got)
			continue
		}
		if got.Label() != label {
			t.Errorf("Expected label %q to be preserved, got %q", label, got.Label())
		}
	}
}

func TestUnknownKindEquality(t *testing.T) {
	if Unknown("Collections:") != Unknown("Collections:") {
		t.Error("Expected identical unknown labels to be equal")
	}
	if Unknown("Collections:") == Unknown("Summary:") {
		t.Error("Expected different unknown labels to differ")
	}
	if Unknown("") == Rating {
		t.Error("Expected unknown kind to differ from known kinds")
	}

	m := map[Kind]int{Unknown("a"): 1, Unknown("b"): 2, Rating: 3}
	m[Unknown("a")]++
	if m[Unknown("a")] != 2 || len(m) != 3 {
		t.Errorf("Unexpected map state: %v", m)
	}
}
