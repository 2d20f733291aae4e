// Command obo-terms lists the terms of an ontology file.
//
// By default the command writes one tab-delimited row per term: id, name,
// depth, parent count and obsolete flag. With --stanza and term id
// arguments it reconstructs and prints the raw stanzas instead.
//
// Usage:
//
//	obo-terms --obo gene_ontology.obo
//	obo-terms --obo gene_ontology.obo --stanza GO:0008150
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/obokit/obokit/internal/cli"
)

var (
	loadOpts cli.LoadOptions
	ioOpts   cli.IOOptions
	stanza   bool
	obsolete bool
)

var rootCmd = &cobra.Command{
	Use:   "obo-terms [term-id ...]",
	Short: "List the terms of an ontology",
	Long: `This command lists the terms of an ontology file as a tab-delimited
table of id, name, depth, parent count and obsolete flag. Term id arguments
restrict the listing to those terms.

    obo-terms --obo go.obo

With --stanza the raw stanzas of the named terms are reconstructed and
printed instead of the table.`,
	RunE: run,
}

func init() {
	cli.AddLoadFlags(rootCmd, &loadOpts)
	cli.AddIOFlags(rootCmd, &ioOpts)
	rootCmd.Flags().BoolVar(&stanza, "stanza", false,
		"print raw stanzas instead of the summary table")
	rootCmd.Flags().BoolVar(&obsolete, "obsolete", false,
		"include obsolete terms in the listing")
}

func run(cmd *cobra.Command, args []string) error {
	ontology, err := loadOpts.LoadOntology()
	if err != nil {
		return fmt.Errorf("loading ontology: %w", err)
	}

	ids := args
	if len(ids) == 0 {
		ids = ontology.TermIDs()
	}

	outFile, err := cli.OpenOutput(ioOpts.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer outFile.Close()

	if stanza {
		for _, id := range ids {
			term, err := ontology.Term(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(outFile, term.String())
		}
		return nil
	}

	writer := cli.NewTabWriter(outFile)
	defer writer.Flush()

	if err := writer.WriteHeaders([]string{"term_id", "name", "depth", "parents", "obsolete"}); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	for _, id := range ids {
		term, err := ontology.Term(id)
		if err != nil {
			return err
		}
		if term.IsObsolete() && !obsolete {
			continue
		}
		depth, err := ontology.TermDepth(id)
		if err != nil {
			return fmt.Errorf("depth of %s: %w", id, err)
		}
		row := []string{
			id,
			term.Name(),
			strconv.Itoa(depth),
			strconv.Itoa(len(term.Relations)),
			strconv.FormatBool(term.IsObsolete()),
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
