// Package obo parses OBO-format ontology files and provides graph queries
// over the resulting term DAG.
//
// The parser is permissive in the way real-world ontology dumps require:
// comment lines, unknown stanza kinds and colon-less lines are skipped
// rather than rejected. The six well-known relationship typedefs are always
// present in a parsed ontology, whether or not the source declares them.
package obo

import (
	"strings"
)

// Kind identifies the stanza type a record was parsed from.
type Kind string

const (
	KindTerm     Kind = "Term"
	KindTypedef  Kind = "Typedef"
	KindInstance Kind = "Instance"
)

// Relation is a typed directed edge to another term. The relation type is a
// typedef id such as "is_a" or "part_of".
type Relation struct {
	Type string
	ID   string
}

// tagLine preserves one parsed stanza line for round-tripping.
type tagLine struct {
	Tag       string
	Value     string
	Modifiers string
	Comment   string
}

// multiTags is the set of tags that accumulate multiple values.
// All other tags overwrite, last occurrence wins.
var multiTags = map[string]bool{
	"alt_id":          true,
	"consider":        true,
	"disjoint_from":   true,
	"intersection_of": true,
	"is_a":            true,
	"relationship":    true,
	"replaced_by":     true,
	"subset":          true,
	"synonym":         true,
	"union_of":        true,
	"xref":            true,
	"xref_analog":     true,
}

// IsMultiTag reports whether values of the named tag accumulate rather
// than overwrite.
func IsMultiTag(tag string) bool {
	return multiTags[tag]
}

// Term is one record of an ontology: a [Term], [Typedef] or [Instance]
// stanza. A Term is immutable after parsing except for RelatedTo, which the
// owning Ontology fills in once all stanzas have been read.
type Term struct {
	// ID is the unique identifier of the record.
	ID string

	// Kind is the stanza type this record was parsed from.
	Kind Kind

	// Relations holds the forward edges of this term (term -> parent),
	// derived from is_a and relationship tags.
	Relations []Relation

	// RelatedTo holds the reverse edges (term -> child). It is populated by
	// the owning Ontology after the full parse and is the exact transpose of
	// the forward edges.
	RelatedTo []Relation

	values map[string][]string
	lines  []tagLine
}

// ParseStanza parses the body lines of a stanza of the given kind into a
// Term. Lines with no colon are skipped. A "!" introduces a trailing comment
// and a "{...}" block introduces trailing modifiers; both are stripped from
// the value but preserved for round-tripping.
func ParseStanza(kind Kind, body []string) *Term {
	t := &Term{
		Kind:   kind,
		values: make(map[string][]string),
	}
	for _, line := range body {
		tag, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		tag = strings.TrimSpace(tag)

		var comment, modifiers string
		if value, c, ok := strings.Cut(rest, "!"); ok {
			rest, comment = value, strings.TrimSpace(c)
		}
		if value, m, ok := strings.Cut(rest, "{"); ok {
			rest = value
			modifiers = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m), "}"))
		}
		value := strings.TrimSpace(rest)

		t.lines = append(t.lines, tagLine{Tag: tag, Value: value, Modifiers: modifiers, Comment: comment})
		if multiTags[tag] {
			t.values[tag] = append(t.values[tag], value)
		} else {
			t.values[tag] = []string{value}
		}
	}
	t.ID, _ = t.Value("id")
	t.Relations = t.relations()
	return t
}

// relations derives the forward edge set from the is_a and relationship tags.
func (t *Term) relations() []Relation {
	var rels []Relation
	for _, id := range t.values["is_a"] {
		rels = append(rels, Relation{Type: "is_a", ID: id})
	}
	for _, v := range t.values["relationship"] {
		relType, id, ok := strings.Cut(v, " ")
		if !ok {
			continue
		}
		rels = append(rels, Relation{Type: relType, ID: strings.TrimSpace(id)})
	}
	return rels
}

// Value returns the value of a single-valued tag. For multi-valued tags it
// returns the first occurrence. The second return is false if the tag is
// absent from the stanza.
func (t *Term) Value(tag string) (string, bool) {
	vs, ok := t.values[tag]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Values returns all values recorded for a tag, in stanza order.
func (t *Term) Values(tag string) []string {
	vs := t.values[tag]
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// Name returns the human-readable label of the term, or the empty string.
func (t *Term) Name() string {
	name, _ := t.Value("name")
	return name
}

// IsObsolete reports whether the term carries is_obsolete: true.
func (t *Term) IsObsolete() bool {
	v, _ := t.Value("is_obsolete")
	return v == "true"
}

// String reconstructs the stanza, including stripped modifiers and comments.
func (t *Term) String() string {
	var sb strings.Builder
	sb.WriteString("[" + string(t.Kind) + "]\n")
	for _, l := range t.lines {
		sb.WriteString(l.Tag + ": " + l.Value)
		if l.Modifiers != "" {
			sb.WriteString(" { " + l.Modifiers + " }")
		}
		if l.Comment != "" {
			sb.WriteString(" ! " + l.Comment)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
