// Command obo-enrich computes term enrichment for a gene set.
//
// The command reads a query gene list from a column of tab-delimited input,
// tests every ontology term reachable upward from the genes' annotations
// against a reference population, and writes one row per term with the
// matched genes, raw p-value, reference count and FDR-adjusted significance.
//
// Usage:
//
//	obo-enrich --obo gene_ontology.obo --gaf gene_association.sgd [options] < genes.tsv
//
// Examples:
//
//	# Enrich a gene list against all annotated genes
//	obo-enrich --obo go.obo --gaf gene_association.sgd -i genes.tsv
//
//	# Restrict to experimental evidence and the molecular function aspect
//	obo-enrich --obo go.obo --gaf gene_association.sgd -e EXP -e IDA -A F
//
//	# Use the binomial approximation and report only FDR < 0.05
//	obo-enrich --obo go.obo --gaf gene_association.sgd --test binomial --alpha 0.05
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obokit/obokit/enrich"
	"github.com/obokit/obokit/internal/cli"
)

var (
	loadOpts   cli.LoadOptions
	enrichOpts cli.EnrichOptions
	colOpts    cli.ColOptions
	ioOpts     cli.IOOptions
)

var rootCmd = &cobra.Command{
	Use:   "obo-enrich",
	Short: "Compute ontology term enrichment for a gene set",
	Long: `This command tests ontology terms for over-representation in a query
gene set relative to a reference population.

    obo-enrich [options] < genes.tsv

The query genes are read from a column of the tab-delimited input (the last
column by default; use --col to select another). The reference set defaults
to every gene in the association file, or is read from --reference.

Output columns are term id, term name, depth, matched query genes, query
count, reference count, p-value and FDR.

Examples:

  # Enrich a gene list against all annotated genes
  obo-enrich --obo go.obo --gaf gene_association.sgd -i genes.tsv

  # Experimental evidence only, molecular function aspect
  obo-enrich --obo go.obo --gaf gene_association.sgd -e EXP -e IDA -A F

  # Report only terms with FDR below 0.05
  obo-enrich --obo go.obo --gaf gene_association.sgd --alpha 0.05`,
	RunE: run,
}

func init() {
	cli.AddLoadFlags(rootCmd, &loadOpts)
	cli.AddEnrichFlags(rootCmd, &enrichOpts)
	cli.AddColFlags(rootCmd, &colOpts)
	cli.AddIOFlags(rootCmd, &ioOpts)
}

func run(cmd *cobra.Command, args []string) error {
	evidence, err := enrichOpts.EvidenceSet()
	if err != nil {
		return err
	}
	aspect, err := enrichOpts.AspectValue()
	if err != nil {
		return err
	}
	test, err := enrichOpts.Test()
	if err != nil {
		return err
	}

	ontology, err := loadOpts.LoadOntology()
	if err != nil {
		return fmt.Errorf("loading ontology: %w", err)
	}
	store, err := loadOpts.LoadStore(ontology)
	if err != nil {
		return fmt.Errorf("loading annotations: %w", err)
	}

	inFile, err := cli.OpenInput(ioOpts.Input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	query, err := cli.ReadGenes(inFile, colOpts.Col, colOpts.NoHead)
	inFile.Close()
	if err != nil {
		return err
	}

	reference, err := enrichOpts.ReferenceGenes()
	if err != nil {
		return err
	}

	engineOpts := []enrich.EngineOption{
		enrich.WithTest(test),
		enrich.WithEvidence(evidence),
		enrich.WithAspect(aspect),
	}
	if loadOpts.Progress {
		engineOpts = append(engineOpts, enrich.WithProgress(cli.Progress("testing terms")))
	}
	engine := enrich.New(store, engineOpts...)

	results, err := engine.Enrich(query, reference)
	if err != nil {
		return fmt.Errorf("computing enrichment: %w", err)
	}
	if results.DroppedQuery > 0 || results.DroppedReference > 0 {
		fmt.Fprintf(os.Stderr, "obo-enrich: %d query and %d reference gene name(s) did not resolve\n",
			results.DroppedQuery, results.DroppedReference)
	}

	outFile, err := cli.OpenOutput(ioOpts.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer outFile.Close()

	writer := cli.NewTabWriter(outFile)
	defer writer.Flush()

	headers := []string{"term_id", "term_name", "depth", "genes", "query_count", "ref_count", "p_value", "fdr"}
	if err := writer.WriteHeaders(headers); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	delim := ioOpts.GetDelimiter()
	for _, termID := range results.ByP() {
		r := results.Terms[termID]
		if enrichOpts.Alpha > 0 && r.FDR >= enrichOpts.Alpha {
			continue
		}
		term, err := ontology.Term(termID)
		if err != nil {
			return fmt.Errorf("looking up %s: %w", termID, err)
		}
		depth, err := ontology.TermDepth(termID)
		if err != nil {
			return fmt.Errorf("depth of %s: %w", termID, err)
		}
		row := []string{
			termID,
			term.Name(),
			strconv.Itoa(depth),
			strings.Join(r.Genes, delim),
			strconv.Itoa(len(r.Genes)),
			strconv.Itoa(r.RefCount),
			cli.FormatFloat(r.P),
			cli.FormatFloat(r.FDR),
		}
		if err := writer.WriteRow(row...); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
