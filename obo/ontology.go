package obo

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ArchiveEntry is the fixed name of the ontology file inside a tar archive.
const ArchiveEntry = "gene_ontology_edit.obo"

var (
	// ErrNotFound is returned when a query names a term id that is absent
	// from the ontology.
	ErrNotFound = errors.New("term not found")

	// ErrCycle is returned when a depth computation detects a relation cycle.
	ErrCycle = errors.New("relation cycle detected")
)

// builtinTypedefs are the well-known relationship typedefs that are injected
// before any input is parsed. They guarantee resolvable relation semantics
// even from malformed or truncated sources.
const builtinTypedefs = `[Typedef]
id: is_a
name: is_a
range: OBO:TERM_OR_TYPE
domain: OBO:TERM_OR_TYPE
definition: The basic subclassing relationship [OBO:defs]

[Typedef]
id: disjoint_from
name: disjoint_from
range: OBO:TERM
domain: OBO:TERM
definition: Indicates that two classes are disjoint [OBO:defs]

[Typedef]
id: instance_of
name: instance_of
range: OBO:TERM
domain: OBO:INSTANCE
definition: Indicates the type of an instance [OBO:defs]

[Typedef]
id: inverse_of
name: inverse_of
range: OBO:TYPE
domain: OBO:TYPE
definition: Indicates that one relationship type is the inverse of another [OBO:defs]

[Typedef]
id: union_of
name: union_of
range: OBO:TERM
domain: OBO:TERM
definition: Indicates that a term is the union of several others [OBO:defs]

[Typedef]
id: intersection_of
name: intersection_of
range: OBO:TERM
domain: OBO:TERM
definition: Indicates that a term is the intersection of several others [OBO:defs]
`

// ProgressFunc receives a monotonically increasing percentage in [0,100]
// as work is consumed. Callbacks are observational only and never affect
// correctness.
type ProgressFunc func(percent float64)

// Ontology owns all term, typedef and instance records of a parsed OBO file
// and provides closure queries over the relation DAG. An Ontology is built
// once and is read-only thereafter.
type Ontology struct {
	terms     map[string]*Term
	typedefs  map[string]*Term
	instances map[string]*Term

	depths map[string]int // TermDepth memo; 0 marks in-progress
}

// Option configures parsing.
type Option func(*parseConfig)

type parseConfig struct {
	progress ProgressFunc
}

// WithProgress installs a progress callback invoked as stanzas are consumed.
func WithProgress(fn ProgressFunc) Option {
	return func(c *parseConfig) {
		c.progress = fn
	}
}

// Parse reads an OBO document from r. Comment lines are stripped, stanzas
// with an unrecognized leading tag are ignored, and the six builtin typedefs
// are parsed before any input. After the last stanza a single pass inverts
// every forward relation into the referenced parent's reverse edge set.
func Parse(r io.Reader, opts ...Option) (*Ontology, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Ontology{
		terms:     make(map[string]*Term),
		typedefs:  make(map[string]*Term),
		instances: make(map[string]*Term),
		depths:    make(map[string]int),
	}

	// Builtins first, unconditionally, even if the file supplies its own.
	builtin, err := splitStanzas(strings.NewReader(builtinTypedefs))
	if err != nil {
		return nil, fmt.Errorf("parsing builtin typedefs: %v", err)
	}
	stanzas, err := splitStanzas(r)
	if err != nil {
		return nil, fmt.Errorf("reading ontology: %w", err)
	}
	stanzas = append(builtin, stanzas...)

	for i, st := range stanzas {
		switch st.kind {
		case KindTerm:
			t := ParseStanza(KindTerm, st.body)
			o.terms[t.ID] = t
		case KindTypedef:
			t := ParseStanza(KindTypedef, st.body)
			o.typedefs[t.ID] = t
		case KindInstance:
			t := ParseStanza(KindInstance, st.body)
			o.instances[t.ID] = t
		}
		if cfg.progress != nil {
			cfg.progress(100 * float64(i+1) / float64(len(stanzas)))
		}
	}

	// Invert forward edges into reverse edges. Runs exactly once, after the
	// full parse.
	for id, t := range o.terms {
		for _, rel := range t.Relations {
			parent, ok := o.terms[rel.ID]
			if !ok {
				return nil, fmt.Errorf("term %s references %s: %w", id, rel.ID, ErrNotFound)
			}
			parent.RelatedTo = append(parent.RelatedTo, Relation{Type: rel.Type, ID: id})
		}
	}

	return o, nil
}

// stanza is one raw bracket-tagged block.
type stanza struct {
	kind Kind
	body []string
}

// splitStanzas strips comment lines and splits the remainder into
// bracket-tagged blocks terminated by a blank line. Content before the first
// stanza header (the OBO file header) is ignored.
func splitStanzas(r io.Reader) ([]stanza, error) {
	var (
		stanzas []stanza
		cur     *stanza
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if cur != nil {
				stanzas = append(stanzas, *cur)
			}
			name := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			cur = &stanza{kind: Kind(name)}
			continue
		}
		if line == "" {
			if cur != nil {
				stanzas = append(stanzas, *cur)
				cur = nil
			}
			continue
		}
		if cur != nil {
			cur.body = append(cur.body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		stanzas = append(stanzas, *cur)
	}
	return stanzas, nil
}

// Load parses an ontology from a file path. Paths ending in .tar, .tar.gz or
// .tgz are treated as archives containing the fixed entry named by
// ArchiveEntry; anything else is read as a plain OBO file. A missing file or
// archive entry is a fatal load error: the ontology is never partially loaded.
func Load(path string, opts ...Option) (*Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ontology: %w", err)
	}
	defer f.Close()

	if IsArchivePath(path) {
		r, err := ArchiveEntryReader(f, path, ArchiveEntry)
		if err != nil {
			return nil, fmt.Errorf("reading ontology archive %s: %w", path, err)
		}
		return Parse(r, opts...)
	}
	return Parse(f, opts...)
}

// IsArchivePath reports whether a path names a tar archive by extension.
func IsArchivePath(path string) bool {
	return strings.HasSuffix(path, ".tar") ||
		strings.HasSuffix(path, ".tar.gz") ||
		strings.HasSuffix(path, ".tgz")
}

// ArchiveEntryReader positions a tar reader over f at the named entry,
// decompressing first when the path indicates gzip.
func ArchiveEntryReader(f io.Reader, path, entry string) (io.Reader, error) {
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".tgz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		f = gz
	}
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("entry %q not found", entry)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Name == entry {
			return tr, nil
		}
	}
}

// Term returns the term with the given id, or ErrNotFound.
func (o *Ontology) Term(id string) (*Term, error) {
	t, ok := o.terms[id]
	if !ok {
		return nil, fmt.Errorf("term %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// Typedef returns the typedef with the given id, or ErrNotFound.
func (o *Ontology) Typedef(id string) (*Term, error) {
	t, ok := o.typedefs[id]
	if !ok {
		return nil, fmt.Errorf("typedef %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// Len returns the number of terms in the ontology.
func (o *Ontology) Len() int {
	return len(o.terms)
}

// TermIDs returns all term ids in lexical order.
func (o *Ontology) TermIDs() []string {
	ids := make([]string, 0, len(o.terms))
	for id := range o.terms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AncestorClosure returns the set of terms reachable from the seed ids over
// forward relations, seeds included. The traversal is visited-set based and
// terminates even if the relation graph is cyclic. An unknown seed id is
// ErrNotFound.
func (o *Ontology) AncestorClosure(ids ...string) (map[string]bool, error) {
	return o.closure(ids, func(t *Term) []Relation { return t.Relations })
}

// DescendantClosure returns the set of terms reachable from the seed ids
// over reverse relations, seeds included.
func (o *Ontology) DescendantClosure(ids ...string) (map[string]bool, error) {
	return o.closure(ids, func(t *Term) []Relation { return t.RelatedTo })
}

func (o *Ontology) closure(seeds []string, edges func(*Term) []Relation) (map[string]bool, error) {
	visited := make(map[string]bool)
	queue := make([]string, 0, len(seeds))
	for _, id := range seeds {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		t, ok := o.terms[id]
		if !ok {
			return nil, fmt.Errorf("term %s: %w", id, ErrNotFound)
		}
		for _, rel := range edges(t) {
			if !visited[rel.ID] {
				visited[rel.ID] = true
				queue = append(queue, rel.ID)
			}
		}
	}
	return visited, nil
}

// TermDepth returns the length of the shortest relation path from the term
// to a root, where roots have depth 1. Results are memoized across calls.
// A cycle through the term fails with ErrCycle rather than recursing
// unboundedly.
func (o *Ontology) TermDepth(id string) (int, error) {
	if d, ok := o.depths[id]; ok && d > 0 {
		return d, nil
	}
	return o.termDepth(id)
}

func (o *Ontology) termDepth(id string) (int, error) {
	if d, ok := o.depths[id]; ok {
		if d == 0 {
			return 0, fmt.Errorf("term %s: %w", id, ErrCycle)
		}
		return d, nil
	}
	t, ok := o.terms[id]
	if !ok {
		return 0, fmt.Errorf("term %s: %w", id, ErrNotFound)
	}

	o.depths[id] = 0 // in-progress marker
	depth := 1
	for i, rel := range t.Relations {
		pd, err := o.termDepth(rel.ID)
		if err != nil {
			delete(o.depths, id)
			return 0, err
		}
		if i == 0 || pd+1 < depth {
			depth = pd + 1
		}
	}
	o.depths[id] = depth
	return depth, nil
}
