// Package enrich computes the statistical enrichment of ontology terms
// within a query gene set relative to a reference population.
//
// For every term reachable upward from the query's directly annotated terms,
// the engine counts the overlap between the term's transitive annotations
// and the query and reference sets, scores it with a pluggable significance
// test, and adjusts the resulting p-values for multiple testing with the
// Benjamini-Hochberg step-up procedure.
package enrich

import (
	"errors"
	"fmt"
	"sort"

	"github.com/obokit/obokit/annot"
	"github.com/obokit/obokit/obo"
)

// ErrInsufficientInput is returned when alias resolution leaves an empty
// query or reference gene set.
var ErrInsufficientInput = errors.New("no valid genes after name resolution")

// TermResult holds the enrichment outcome for one term.
type TermResult struct {
	// Genes lists the query genes (in their input spelling) annotated to
	// the term or its descendants, in lexical order.
	Genes []string

	// P is the raw significance of the overlap.
	P float64

	// RefCount is the number of reference genes annotated to the term or
	// its descendants.
	RefCount int

	// FDR is the Benjamini-Hochberg adjusted significance across all
	// tested terms.
	FDR float64
}

// Results maps term ids to their enrichment outcome.
type Results struct {
	// Terms holds the per-term outcomes.
	Terms map[string]*TermResult

	// QuerySize and ReferenceSize are the canonical set sizes the test
	// was run with.
	QuerySize     int
	ReferenceSize int

	// DroppedQuery and DroppedReference count input names that failed
	// alias resolution and were excluded.
	DroppedQuery     int
	DroppedReference int
}

// TermIDs returns the tested term ids in lexical order.
func (r *Results) TermIDs() []string {
	ids := make([]string, 0, len(r.Terms))
	for id := range r.Terms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByP returns the tested term ids ordered by ascending raw p-value, with
// term id as the tie break.
func (r *Results) ByP() []string {
	ids := r.TermIDs()
	sort.SliceStable(ids, func(i, j int) bool {
		pi, pj := r.Terms[ids[i]].P, r.Terms[ids[j]].P
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Engine runs enrichment analyses over a built annotation store. The store
// and ontology are treated as read-only; an Engine may be reused across
// calls.
type Engine struct {
	store      *annot.Store
	translator annot.Translator
	test       Test
	evidence   annot.EvidenceSet
	aspect     annot.Aspect
	progress   obo.ProgressFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTest sets the significance test. The default is Hypergeometric.
func WithTest(t Test) EngineOption {
	return func(e *Engine) { e.test = t }
}

// WithEvidence restricts the annotations considered to the given evidence
// codes. The default allows all known codes.
func WithEvidence(set annot.EvidenceSet) EngineOption {
	return func(e *Engine) { e.evidence = set }
}

// WithAspect restricts the analysis to one annotation aspect. The default is
// the biological process aspect.
func WithAspect(a annot.Aspect) EngineOption {
	return func(e *Engine) { e.aspect = a }
}

// WithTranslator overrides the gene-name translation service. The default is
// the store's own alias tables.
func WithTranslator(t annot.Translator) EngineOption {
	return func(e *Engine) { e.translator = t }
}

// WithProgress installs a callback receiving the percentage of candidate
// terms processed.
func WithProgress(fn obo.ProgressFunc) EngineOption {
	return func(e *Engine) { e.progress = fn }
}

// New creates an enrichment engine over the given store.
func New(store *annot.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:      store,
		translator: store,
		test:       Hypergeometric{},
		aspect:     annot.AspectProcess,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich tests every term reachable upward from the query genes' directly
// annotated terms for over-representation against the reference set. An
// empty reference uses every gene the store knows. Input names are resolved
// through the translator first; names that fail to resolve are dropped and
// counted in the result. An empty canonical query or reference set is
// ErrInsufficientInput. A term id referenced by an annotation but absent
// from the ontology fails the call with obo.ErrNotFound.
func (e *Engine) Enrich(query, reference []string) (*Results, error) {
	trans := e.translator.Translate(query)
	spelling := make(map[string]string, len(trans)) // canonical -> input
	for input, canonical := range trans {
		if _, ok := spelling[canonical]; !ok {
			spelling[canonical] = input
		}
	}
	if len(spelling) == 0 {
		return nil, fmt.Errorf("query set: %w", ErrInsufficientInput)
	}
	queryGenes := make(map[string]bool, len(spelling))
	for canonical := range spelling {
		queryGenes[canonical] = true
	}

	if len(reference) == 0 {
		reference = e.store.GeneNames()
	}
	refTrans := e.translator.Translate(reference)
	refGenes := make(map[string]bool, len(refTrans))
	for _, canonical := range refTrans {
		refGenes[canonical] = true
	}
	if len(refGenes) == 0 {
		return nil, fmt.Errorf("reference set: %w", ErrInsufficientInput)
	}

	res := &Results{
		Terms:            make(map[string]*TermResult),
		QuerySize:        len(spelling),
		ReferenceSize:    len(refGenes),
		DroppedQuery:     len(query) - len(trans),
		DroppedReference: len(reference) - len(refTrans),
	}

	// Directly annotated terms of the query genes under the filters.
	direct := make(map[string]bool)
	for canonical := range spelling {
		for _, a := range e.store.GeneAnnotations(canonical) {
			if e.keep(a) {
				direct[a.TermID] = true
			}
		}
	}

	// Reference annotations under the same filters.
	refAnnots := make(annot.AnnotationSet)
	for canonical := range refGenes {
		for _, a := range e.store.GeneAnnotations(canonical) {
			if e.keep(a) {
				refAnnots[a] = struct{}{}
			}
		}
	}

	// Every testable term is a direct term or one of its ancestors:
	// annotation propagates upward through the ontology.
	seeds := make([]string, 0, len(direct))
	for id := range direct {
		seeds = append(seeds, id)
	}
	candidates, err := e.store.Ontology().AncestorClosure(seeds...)
	if err != nil {
		return nil, fmt.Errorf("collecting candidate terms: %w", err)
	}

	terms := make([]string, 0, len(candidates))
	for id := range candidates {
		terms = append(terms, id)
	}
	sort.Strings(terms)

	for i, termID := range terms {
		all, err := e.store.AllAnnotations(termID)
		if err != nil {
			return nil, fmt.Errorf("aggregating annotations for %s: %w", termID, err)
		}

		// Genes carrying an annotation that is both transitive for the term
		// and present in the reference annotation set.
		annotated := make(map[string]bool)
		small, large := all, refAnnots
		if len(refAnnots) < len(all) {
			small, large = refAnnots, all
		}
		for a := range small {
			if _, ok := large[a]; ok {
				annotated[a.GeneName()] = true
			}
		}

		mappedQuery := intersectGenes(annotated, queryGenes)
		mappedRef := intersectGenes(annotated, refGenes)

		genes := make([]string, 0, len(mappedQuery))
		for g := range mappedQuery {
			genes = append(genes, spelling[g])
		}
		sort.Strings(genes)

		res.Terms[termID] = &TermResult{
			Genes:    genes,
			P:        e.test.PValue(len(mappedQuery), len(refGenes), len(mappedRef), len(spelling)),
			RefCount: len(mappedRef),
		}
		if e.progress != nil {
			e.progress(100 * float64(i+1) / float64(len(terms)))
		}
	}

	applyFDR(res)
	return res, nil
}

// keep reports whether an annotation passes the engine's evidence and aspect
// filters.
func (e *Engine) keep(a *annot.Annotation) bool {
	return e.evidence.Allows(a.Evidence) && (e.aspect == "" || a.Aspect == e.aspect)
}

// intersectGenes intersects two gene sets, iterating whichever side is
// smaller. Purely a performance choice with no semantic effect.
func intersectGenes(a, b map[string]bool) map[string]bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(map[string]bool)
	for g := range a {
		if b[g] {
			out[g] = true
		}
	}
	return out
}

// applyFDR fills in the FDR field of every term result using the
// Benjamini-Hochberg step-up procedure.
func applyFDR(res *Results) {
	ids := res.ByP()
	ps := make([]float64, len(ids))
	for i, id := range ids {
		ps[i] = res.Terms[id].P
	}
	adj := AdjustFDR(ps)
	for i, id := range ids {
		res.Terms[id].FDR = adj[i]
	}
}

// AdjustFDR returns the Benjamini-Hochberg adjusted values for a slice of
// p-values, in the same order as the input. Each adjusted value is
// p*m/rank under ascending rank, made monotone by a running minimum from
// the largest rank down, and clamped to 1.
func AdjustFDR(ps []float64) []float64 {
	m := len(ps)
	if m == 0 {
		return nil
	}
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return ps[order[a]] < ps[order[b]] })

	adj := make([]float64, m)
	running := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		v := ps[idx] * float64(m) / float64(rank)
		if v < running {
			running = v
		}
		adj[idx] = running
	}
	return adj
}
