package annot

import (
	"reflect"
	"strings"
	"testing"
)

// gafLine builds one association record in GAF column order.
func gafLine(objectID, symbol, term, evidence, aspect, synonyms string) string {
	fields := []string{
		"SGD", objectID, symbol, "", term, "SGD_REF:S000000001", evidence, "",
		aspect, symbol + " protein", synonyms, "gene", "taxon:4932", "20260101", "SGD",
	}
	return strings.Join(fields, "\t")
}

func TestParseAnnotation(t *testing.T) {
	a := parseAnnotation(gafLine("S000000001", "ACT1", "GO:0000300", "IDA", "P", "YFL039C|actin"))
	if a == nil {
		t.Fatal("parseAnnotation() = nil, want record")
	}

	if a.DB != "SGD" {
		t.Errorf("DB = %q, want SGD", a.DB)
	}
	if a.DBObjectID != "S000000001" {
		t.Errorf("DBObjectID = %q, want S000000001", a.DBObjectID)
	}
	if a.GeneName() != "ACT1" {
		t.Errorf("GeneName() = %q, want ACT1", a.GeneName())
	}
	if a.TermID != "GO:0000300" {
		t.Errorf("TermID = %q, want GO:0000300", a.TermID)
	}
	if a.Evidence != "IDA" {
		t.Errorf("Evidence = %q, want IDA", a.Evidence)
	}
	if a.Aspect != AspectProcess {
		t.Errorf("Aspect = %q, want %q", a.Aspect, AspectProcess)
	}
	if want := []string{"YFL039C", "actin"}; !reflect.DeepEqual(a.Synonyms, want) {
		t.Errorf("Synonyms = %v, want %v", a.Synonyms, want)
	}
	if a.Taxon != "taxon:4932" {
		t.Errorf("Taxon = %q, want taxon:4932", a.Taxon)
	}
}

func TestParseAnnotation_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing symbol", gafLine("S1", "", "GO:0000300", "IDA", "P", "")},
		{"missing term", gafLine("S1", "ACT1", "", "IDA", "P", "")},
		{"short row", "SGD\tS1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a := parseAnnotation(tt.line); a != nil {
				t.Errorf("parseAnnotation() = %+v, want nil", a)
			}
		})
	}
}

func TestEvidenceSet(t *testing.T) {
	all := NewEvidenceSet()
	if !all.Allows("IEA") || !all.Allows("IDA") {
		t.Error("default set should allow all known codes")
	}
	if all.Allows("XXX") {
		t.Error("default set should not allow unknown codes")
	}

	exp := NewEvidenceSet("EXP", "IDA")
	if !exp.Allows("IDA") {
		t.Error("explicit set should allow named code")
	}
	if exp.Allows("IEA") {
		t.Error("explicit set should reject unnamed code")
	}
	if want := []string{"EXP", "IDA"}; !reflect.DeepEqual(exp.Codes(), want) {
		t.Errorf("Codes() = %v, want %v", exp.Codes(), want)
	}

	var nilSet EvidenceSet
	if !nilSet.Allows("TAS") {
		t.Error("nil set should behave like the default filter")
	}
	if nilSet.Allows("XXX") {
		t.Error("nil set should not allow unknown codes")
	}
}
