// Package annot parses gene association (GAF) files and provides indexed
// access to gene-to-term annotations, including transitive aggregation over
// an ontology's descendant relation.
package annot

import (
	"strings"
)

// Aspect identifies the sub-ontology an annotation belongs to.
type Aspect string

const (
	// AspectProcess is the biological process aspect.
	AspectProcess Aspect = "P"
	// AspectComponent is the cellular component aspect.
	AspectComponent Aspect = "C"
	// AspectFunction is the molecular function aspect.
	AspectFunction Aspect = "F"
)

// Annotation is one gene-to-term association record. Annotations are
// immutable once parsed.
type Annotation struct {
	// DB is the database contributing the annotated object.
	DB string

	// DBObjectID is the unique database identifier of the gene product.
	DBObjectID string

	// Symbol is the gene symbol; it doubles as the canonical gene name.
	Symbol string

	// Qualifier holds annotation qualifiers such as NOT.
	Qualifier string

	// TermID is the ontology term the gene is annotated to.
	TermID string

	// Reference cites the source of the annotation.
	Reference string

	// Evidence is the evidence code for the annotation.
	Evidence string

	// WithFrom holds the with/from support field.
	WithFrom string

	// Aspect is the sub-ontology of the annotated term.
	Aspect Aspect

	// Name is the descriptive name of the gene product.
	Name string

	// Synonyms lists alternate identifiers for the gene product.
	Synonyms []string

	// ObjectType is the type of the annotated entity (gene, protein, ...).
	ObjectType string

	// Taxon identifies the organism.
	Taxon string

	// Date is the annotation date as recorded in the file.
	Date string

	// AssignedBy names the group that made the annotation.
	AssignedBy string
}

// GeneName returns the canonical gene name of the annotated object.
func (a *Annotation) GeneName() string {
	return a.Symbol
}

// parseAnnotation parses one tab-delimited association record. It returns
// nil for records that do not carry both a gene symbol and a term id.
func parseAnnotation(line string) *Annotation {
	fields := strings.Split(line, "\t")
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	a := &Annotation{
		DB:         field(0),
		DBObjectID: field(1),
		Symbol:     field(2),
		Qualifier:  field(3),
		TermID:     field(4),
		Reference:  field(5),
		Evidence:   field(6),
		WithFrom:   field(7),
		Aspect:     Aspect(field(8)),
		Name:       field(9),
		ObjectType: field(11),
		Taxon:      field(12),
		Date:       field(13),
		AssignedBy: field(14),
	}
	if syn := field(10); syn != "" {
		a.Synonyms = strings.Split(syn, "|")
	}
	if a.Symbol == "" || a.TermID == "" {
		return nil
	}
	return a
}
