// Command obo-genes lists the genes annotated to an ontology term.
//
// The listing is transitive: a gene annotated to any descendant of the term
// counts as annotated to the term itself. An evidence filter restricts
// which annotations participate.
//
// Usage:
//
//	obo-genes --obo go.obo --gaf gene_association.sgd GO:0008150
//
// Examples:
//
//	# All genes under a term
//	obo-genes --obo go.obo --gaf gene_association.sgd GO:0060070
//
//	# Experimentally supported genes only
//	obo-genes --obo go.obo --gaf gene_association.sgd -e EXP -e IDA GO:0060070
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/obokit/obokit/internal/cli"
)

var (
	loadOpts   cli.LoadOptions
	enrichOpts cli.EnrichOptions
	ioOpts     cli.IOOptions
)

var rootCmd = &cobra.Command{
	Use:   "obo-genes term-id [term-id ...]",
	Short: "List genes annotated to a term or its descendants",
	Long: `This command lists the distinct genes annotated to each named term or
to any of its descendants, one gene per line, with the term id in the first
column.

    obo-genes --obo go.obo --gaf gene_association.sgd GO:0008150

The --evidence flag restricts the annotations considered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	cli.AddLoadFlags(rootCmd, &loadOpts)
	cli.AddEnrichFlags(rootCmd, &enrichOpts)
	cli.AddIOFlags(rootCmd, &ioOpts)
}

func run(cmd *cobra.Command, args []string) error {
	evidence, err := enrichOpts.EvidenceSet()
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

	outFile, err := cli.OpenOutput(ioOpts.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer outFile.Close()

	writer := cli.NewTabWriter(outFile)
	defer writer.Flush()

	if err := writer.WriteHeaders([]string{"term_id", "gene"}); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	for _, id := range args {
		genes, err := store.AllGenes(id, evidence)
		if err != nil {
			return fmt.Errorf("collecting genes for %s: %w", id, err)
		}
		for _, gene := range genes {
			if err := writer.WriteRow(id, gene); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
