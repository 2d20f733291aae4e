// Package cli provides utilities shared by the obokit command-line tools.
//
// This package provides standardized option handling, tab-delimited I/O,
// and terminal-aware progress reporting for the obo-* commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/obokit/obokit/annot"
	"github.com/obokit/obokit/datadir"
	"github.com/obokit/obokit/enrich"
	"github.com/obokit/obokit/obo"
)

// LoadOptions locates the ontology and association inputs.
type LoadOptions struct {
	// Ontology is the explicit ontology file path (OBO or tar archive).
	Ontology string

	// Annotations is the explicit gene association file path.
	Annotations string

	// Org is the organism code used to pick an association file from the
	// data directory when no explicit path is given.
	Org string

	// Progress enables progress reporting while loading.
	Progress bool
}

// AddLoadFlags adds the input location flags to a cobra command.
func AddLoadFlags(cmd *cobra.Command, opts *LoadOptions) {
	flags := cmd.Flags()

	flags.StringVar(&opts.Ontology, "obo", "",
		"ontology file (default: gene_ontology* in $"+datadir.EnvVar+")")
	flags.StringVar(&opts.Annotations, "gaf", "",
		"gene association file (default: gene_association* in $"+datadir.EnvVar+")")
	flags.StringVar(&opts.Org, "org", "",
		"organism code for selecting the association file")
	flags.BoolVar(&opts.Progress, "progress", false,
		"report load and computation progress on stderr")
}

// LoadOntology resolves and parses the ontology.
func (o *LoadOptions) LoadOntology() (*obo.Ontology, error) {
	path, err := datadir.OntologyPath(o.Ontology)
	if err != nil {
		return nil, fmt.Errorf("locating ontology: %w", err)
	}
	var opts []obo.Option
	if o.Progress {
		opts = append(opts, obo.WithProgress(Progress("parsing ontology")))
	}
	return obo.Load(path, opts...)
}

// LoadStore resolves and parses the gene association file against the
// ontology.
func (o *LoadOptions) LoadStore(ontology *obo.Ontology) (*annot.Store, error) {
	path, err := datadir.AnnotationsPath(o.Annotations, o.Org)
	if err != nil {
		return nil, fmt.Errorf("locating annotations: %w", err)
	}
	var opts []annot.Option
	if o.Progress {
		opts = append(opts, annot.WithProgress(Progress("parsing annotations")))
	}
	return annot.Load(path, ontology, opts...)
}

// EnrichOptions contains the statistical filter and test options.
type EnrichOptions struct {
	// Evidence lists the allowed evidence codes (empty = all known codes).
	Evidence []string

	// Aspect is the annotation aspect: P, C or F.
	Aspect string

	// TestName selects the significance test: hypergeometric or binomial.
	TestName string

	// Alpha is the FDR significance cutoff for reported terms
	// (0 = report everything).
	Alpha float64

	// Reference is a file containing the reference gene set, one gene per
	// line (empty = all annotated genes).
	Reference string
}

// AddEnrichFlags adds the enrichment flags to a cobra command.
func AddEnrichFlags(cmd *cobra.Command, opts *EnrichOptions) {
	flags := cmd.Flags()

	flags.StringSliceVarP(&opts.Evidence, "evidence", "e", nil,
		"evidence code(s) to allow (can be repeated; default: all)")
	flags.StringVarP(&opts.Aspect, "aspect", "A", "P",
		"annotation aspect: P (process), C (component) or F (function)")
	flags.StringVar(&opts.TestName, "test", "hypergeometric",
		"significance test: hypergeometric or binomial")
	flags.Float64Var(&opts.Alpha, "alpha", 0,
		"report only terms with FDR below this cutoff (0 = all)")
	flags.StringVarP(&opts.Reference, "reference", "r", "",
		"file with the reference gene set, one gene per line (default: all annotated genes)")
}

// EvidenceSet builds the evidence filter from the options, validating that
// every named code is known.
func (o *EnrichOptions) EvidenceSet() (annot.EvidenceSet, error) {
	for _, code := range o.Evidence {
		if _, ok := annot.EvidenceCodes[code]; !ok {
			return nil, fmt.Errorf("unknown evidence code %q", code)
		}
	}
	return annot.NewEvidenceSet(o.Evidence...), nil
}

// AspectValue validates and returns the selected aspect.
func (o *EnrichOptions) AspectValue() (annot.Aspect, error) {
	switch annot.Aspect(o.Aspect) {
	case annot.AspectProcess, annot.AspectComponent, annot.AspectFunction:
		return annot.Aspect(o.Aspect), nil
	}
	return "", fmt.Errorf("invalid aspect %q (expected P, C or F)", o.Aspect)
}

// Test returns the selected significance test.
func (o *EnrichOptions) Test() (enrich.Test, error) {
	switch strings.ToLower(o.TestName) {
	case "hypergeometric", "hyper":
		return enrich.Hypergeometric{}, nil
	case "binomial":
		return enrich.Binomial{}, nil
	}
	return nil, fmt.Errorf("unknown test %q (expected hypergeometric or binomial)", o.TestName)
}

// ReferenceGenes reads the reference gene set file, one gene per line.
// Returns nil when no file is configured.
func (o *EnrichOptions) ReferenceGenes() ([]string, error) {
	if o.Reference == "" {
		return nil, nil
	}
	data, err := os.ReadFile(o.Reference)
	if err != nil {
		return nil, fmt.Errorf("reading reference set: %w", err)
	}
	var genes []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			genes = append(genes, line)
		}
	}
	return genes, nil
}

// ColOptions contains column selection options for input processing.
type ColOptions struct {
	// Col is the gene column (1-based index or header name, 0 = last column)
	Col string

	// NoHead indicates the input has no header row
	NoHead bool
}

// AddColFlags adds the column selection flags to a cobra command.
func AddColFlags(cmd *cobra.Command, opts *ColOptions) {
	flags := cmd.Flags()

	flags.StringVarP(&opts.Col, "col", "c", "0",
		"gene column (1-based index or header name, 0 = last)")
	flags.BoolVar(&opts.NoHead, "nohead", false,
		"input file has no header row")
}

// IOOptions contains input/output options.
type IOOptions struct {
	// Input is the input file path (empty = stdin)
	Input string

	// Output is the output file path (empty = stdout)
	Output string

	// Delim is the delimiter for multi-valued output fields
	Delim string
}

// AddIOFlags adds the I/O flags to a cobra command.
func AddIOFlags(cmd *cobra.Command, opts *IOOptions) {
	flags := cmd.Flags()

	flags.StringVarP(&opts.Input, "input", "i", "",
		"input file (default: stdin)")
	flags.StringVarP(&opts.Output, "output", "o", "",
		"output file (default: stdout)")
	flags.StringVar(&opts.Delim, "delim", "::",
		"delimiter for multi-valued fields (::, tab, space, semi, comma)")
}

// GetDelimiter returns the actual delimiter string.
func (o *IOOptions) GetDelimiter() string {
	switch o.Delim {
	case "tab":
		return "\t"
	case "space":
		return " "
	case "semi":
		return "; "
	case "comma":
		return ","
	default:
		return o.Delim
	}
}

// Progress returns a progress callback that rewrites a percentage line on
// stderr. When stderr is not a terminal the callback is a no-op, so batch
// logs are not flooded with carriage returns.
func Progress(label string) obo.ProgressFunc {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func(float64) {}
	}
	last := -1
	return func(percent float64) {
		p := int(percent)
		if p == last {
			return
		}
		last = p
		fmt.Fprintf(os.Stderr, "\r%s: %3d%%", label, p)
		if p >= 100 {
			fmt.Fprintln(os.Stderr)
		}
	}
}
