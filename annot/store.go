package annot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/obokit/obokit/obo"
)

// ArchiveEntry is the fixed name of the association file inside a tar
// archive.
const ArchiveEntry = "gene_association"

// Translator resolves gene identifiers to canonical gene names. Names that
// cannot be resolved are absent from the result.
type Translator interface {
	Translate(names []string) map[string]string
}

// AnnotationSet is a set of annotation records.
type AnnotationSet map[*Annotation]struct{}

// Store owns all annotation records parsed from an association file and the
// lookup tables over them. It holds a shared reference to the Ontology for
// closure queries. A Store is built once; after construction the only
// mutable state is the transitive-annotation cache, which is populated one
// finalized entry at a time.
type Store struct {
	ontology *obo.Ontology

	// Header holds the comment lines preceding the records, verbatim.
	Header []string

	annotations     []*Annotation
	geneAnnotations map[string][]*Annotation
	termAnnotations map[string][]*Annotation
	geneNames       map[string]bool
	aliases         map[string]string
	additional      map[string]string

	// closures caches the transitive annotation set per term id. Entries
	// are inserted only once fully finalized; a partially built set is
	// never visible to a caller.
	closures map[string]AnnotationSet
}

// Option configures association parsing.
type Option func(*parseConfig)

type parseConfig struct {
	progress obo.ProgressFunc
}

// WithProgress installs a progress callback invoked as records are consumed.
func WithProgress(fn obo.ProgressFunc) Option {
	return func(c *parseConfig) {
		c.progress = fn
	}
}

// Parse reads a gene association file from r and indexes its records against
// the given ontology. Header lines prefixed with "!" are retained in Header;
// records missing a gene symbol or term id are skipped.
func Parse(r io.Reader, ontology *obo.Ontology, opts ...Option) (*Store, error) {
	if ontology == nil {
		return nil, fmt.Errorf("annot: nil ontology")
	}
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		ontology:        ontology,
		geneAnnotations: make(map[string][]*Annotation),
		termAnnotations: make(map[string][]*Annotation),
		geneNames:       make(map[string]bool),
		aliases:         make(map[string]string),
		additional:      make(map[string]string),
		closures:        make(map[string]AnnotationSet),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "!") {
			s.Header = append(s.Header, line)
			continue
		}
		if line == "" {
			continue
		}
		a := parseAnnotation(line)
		if a == nil {
			continue
		}
		s.add(a)
		if cfg.progress != nil {
			cfg.progress(100 * float64(i+1) / float64(len(lines)))
		}
	}
	return s, nil
}

// add indexes one annotation record.
func (s *Store) add(a *Annotation) {
	gene := a.GeneName()
	if !s.geneNames[gene] {
		s.geneNames[gene] = true
		s.aliases[gene] = gene
		s.aliases[a.DBObjectID] = gene
		for _, alias := range a.Synonyms {
			s.aliases[alias] = gene
		}
	}
	s.annotations = append(s.annotations, a)
	s.geneAnnotations[gene] = append(s.geneAnnotations[gene], a)
	s.termAnnotations[a.TermID] = append(s.termAnnotations[a.TermID], a)
}

// Load parses an association file from a path, unpacking tar archives the
// same way obo.Load does, with the fixed inner entry named by ArchiveEntry.
func Load(path string, ontology *obo.Ontology, opts ...Option) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening annotations: %w", err)
	}
	defer f.Close()

	if obo.IsArchivePath(path) {
		r, err := obo.ArchiveEntryReader(f, path, ArchiveEntry)
		if err != nil {
			return nil, fmt.Errorf("reading annotation archive %s: %w", path, err)
		}
		return Parse(r, ontology, opts...)
	}
	return Parse(f, ontology, opts...)
}

// Ontology returns the ontology the store resolves term relations against.
func (s *Store) Ontology() *obo.Ontology {
	return s.ontology
}

// Annotations returns all records in file order. The slice is shared and
// must not be modified.
func (s *Store) Annotations() []*Annotation {
	return s.annotations
}

// GeneNames returns the canonical gene names seen, in lexical order.
func (s *Store) GeneNames() []string {
	names := make([]string, 0, len(s.geneNames))
	for name := range s.geneNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GeneAnnotations returns the annotations directly naming the canonical
// gene, in file order.
func (s *Store) GeneAnnotations(gene string) []*Annotation {
	return s.geneAnnotations[gene]
}

// TermAnnotations returns the annotations directly naming the term, in file
// order.
func (s *Store) TermAnnotations(termID string) []*Annotation {
	return s.termAnnotations[termID]
}

// AddAliases registers additional alternate-identifier mappings to canonical
// gene names. They are consulted after the aliases derived from the
// association file itself.
func (s *Store) AddAliases(aliases map[string]string) {
	for alias, gene := range aliases {
		s.additional[alias] = gene
	}
}

// Translate implements Translator over the store's alias tables.
// Unresolvable names are absent from the result.
func (s *Store) Translate(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if gene, ok := s.aliases[name]; ok {
			out[name] = gene
		} else if gene, ok := s.additional[name]; ok {
			out[name] = gene
		}
	}
	return out
}

// AllAnnotations returns the set of every annotation naming the term or any
// of its descendants. The set is computed once per term and cached; it is
// shared and must not be modified by callers. An unknown term id is
// obo.ErrNotFound, and the store remains usable afterwards.
func (s *Store) AllAnnotations(termID string) (AnnotationSet, error) {
	if set, ok := s.closures[termID]; ok {
		return set, nil
	}
	closure, err := s.ontology.DescendantClosure(termID)
	if err != nil {
		return nil, err
	}
	set := make(AnnotationSet)
	for id := range closure {
		for _, a := range s.termAnnotations[id] {
			set[a] = struct{}{}
		}
	}
	// Finalized before it becomes visible.
	s.closures[termID] = set
	return set, nil
}

// AllGenes returns the distinct canonical gene names annotated to the term
// or any of its descendants with an allowed evidence code, in lexical order.
// A nil evidence set allows all known codes.
func (s *Store) AllGenes(termID string, evidence EvidenceSet) ([]string, error) {
	annots, err := s.AllAnnotations(termID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for a := range annots {
		if evidence.Allows(a.Evidence) {
			seen[a.GeneName()] = true
		}
	}
	genes := make([]string, 0, len(seen))
	for g := range seen {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes, nil
}

// AnnotatedTerms returns, for each term annotated by the given genes under
// the evidence filter, the input-spelling gene names carrying the
// annotation. With direct false the gene sets are propagated upward through
// the ancestor closure of the directly annotated terms.
func (s *Store) AnnotatedTerms(genes []string, direct bool, evidence EvidenceSet) (map[string][]string, error) {
	trans := s.Translate(genes)
	spelling := make(map[string]string, len(trans)) // canonical -> input
	for input, canonical := range trans {
		if _, ok := spelling[canonical]; !ok {
			spelling[canonical] = input
		}
	}

	byTerm := make(map[string]map[string]bool)
	queryAnnots := make(AnnotationSet)
	for canonical := range spelling {
		for _, a := range s.geneAnnotations[canonical] {
			if !evidence.Allows(a.Evidence) {
				continue
			}
			if byTerm[a.TermID] == nil {
				byTerm[a.TermID] = make(map[string]bool)
			}
			byTerm[a.TermID][spelling[canonical]] = true
			queryAnnots[a] = struct{}{}
		}
	}

	if !direct {
		seeds := make([]string, 0, len(byTerm))
		for id := range byTerm {
			seeds = append(seeds, id)
		}
		closure, err := s.ontology.AncestorClosure(seeds...)
		if err != nil {
			return nil, err
		}
		for id := range closure {
			all, err := s.AllAnnotations(id)
			if err != nil {
				return nil, err
			}
			for a := range all {
				if _, ok := queryAnnots[a]; !ok {
					continue
				}
				if byTerm[id] == nil {
					byTerm[id] = make(map[string]bool)
				}
				byTerm[id][spelling[a.GeneName()]] = true
			}
		}
	}

	out := make(map[string][]string, len(byTerm))
	for id, set := range byTerm {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		out[id] = names
	}
	return out, nil
}

// Reset clears the transitive-annotation cache. It must be called if the
// underlying ontology is replaced or the store's indices are rebuilt.
func (s *Store) Reset() {
	s.closures = make(map[string]AnnotationSet)
}
