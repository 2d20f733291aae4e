package obo

import (
	"reflect"
	"testing"
)

func TestParseStanza(t *testing.T) {
	body := []string{
		"id: GO:0000001",
		"name: mitochondrion inheritance",
		"namespace: biological_process",
		"is_a: GO:0048308 ! organelle inheritance",
		"is_a: GO:0048311 ! mitochondrion distribution",
		"relationship: part_of GO:0007052 ! mitotic spindle organization",
	}
	term := ParseStanza(KindTerm, body)

	if term.ID != "GO:0000001" {
		t.Errorf("ID = %q, want GO:0000001", term.ID)
	}
	if term.Kind != KindTerm {
		t.Errorf("Kind = %q, want %q", term.Kind, KindTerm)
	}
	if got := term.Name(); got != "mitochondrion inheritance" {
		t.Errorf("Name() = %q, want mitochondrion inheritance", got)
	}

	wantRels := []Relation{
		{Type: "is_a", ID: "GO:0048308"},
		{Type: "is_a", ID: "GO:0048311"},
		{Type: "part_of", ID: "GO:0007052"},
	}
	if !reflect.DeepEqual(term.Relations, wantRels) {
		t.Errorf("Relations = %v, want %v", term.Relations, wantRels)
	}
}

func TestParseStanza_SkipsInvalidLines(t *testing.T) {
	body := []string{
		"id: GO:0000002",
		"not a valid tag line",
		"name: mitochondrial genome maintenance",
	}
	term := ParseStanza(KindTerm, body)

	if term.ID != "GO:0000002" {
		t.Errorf("ID = %q, want GO:0000002", term.ID)
	}
	if got := term.Name(); got != "mitochondrial genome maintenance" {
		t.Errorf("Name() = %q, want mitochondrial genome maintenance", got)
	}
}

func TestParseStanza_ModifiersAndComments(t *testing.T) {
	tests := []struct {
		name string
		line string
		tag  string
		want string
	}{
		{"plain", "name: plain value", "name", "plain value"},
		{"comment", "is_a: GO:0000001 ! a comment", "is_a", "GO:0000001"},
		{"modifier", "is_a: GO:0000001 {source=\"x\"}", "is_a", "GO:0000001"},
		{"modifier and comment", "is_a: GO:0000001 {source=\"x\"} ! note", "is_a", "GO:0000001"},
		{"value with colon", "id: GO:0000001", "id", "GO:0000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := ParseStanza(KindTerm, []string{tt.line})
			got, ok := term.Value(tt.tag)
			if !ok {
				t.Fatalf("Value(%q) not present", tt.tag)
			}
			if got != tt.want {
				t.Errorf("Value(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestParseStanza_MultiValuedTags(t *testing.T) {
	body := []string{
		"id: GO:0000003",
		"xref: Reactome:1",
		"xref: Reactome:2",
		"comment: first",
		"comment: second",
	}
	term := ParseStanza(KindTerm, body)

	if got := term.Values("xref"); len(got) != 2 {
		t.Errorf("len(Values(xref)) = %d, want 2", len(got))
	}

	// Single-valued tags overwrite; last occurrence wins.
	if got, _ := term.Value("comment"); got != "second" {
		t.Errorf("Value(comment) = %q, want second", got)
	}
}

func TestTerm_Value_Absent(t *testing.T) {
	term := ParseStanza(KindTerm, []string{"id: GO:0000004"})
	if _, ok := term.Value("name"); ok {
		t.Error("Value(name) should not be present")
	}
	if got := term.Values("xref"); len(got) != 0 {
		t.Errorf("Values(xref) = %v, want empty", got)
	}
}

func TestTerm_IsObsolete(t *testing.T) {
	tests := []struct {
		name string
		body []string
		want bool
	}{
		{"absent", []string{"id: GO:1"}, false},
		{"true", []string{"id: GO:1", "is_obsolete: true"}, true},
		{"false", []string{"id: GO:1", "is_obsolete: false"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := ParseStanza(KindTerm, tt.body)
			if got := term.IsObsolete(); got != tt.want {
				t.Errorf("IsObsolete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerm_String(t *testing.T) {
	body := []string{
		"id: GO:0000001",
		"name: mitochondrion inheritance",
		"is_a: GO:0048308 ! organelle inheritance",
	}
	term := ParseStanza(KindTerm, body)

	want := "[Term]\n" +
		"id: GO:0000001\n" +
		"name: mitochondrion inheritance\n" +
		"is_a: GO:0048308 ! organelle inheritance\n"
	if got := term.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
