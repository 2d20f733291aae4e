// Command obo-closure flattens the ontology graph around a set of terms.
//
// For each input term the command writes one line: the term id followed by
// every term in its ancestor closure (or descendant closure with --down),
// tab-delimited, the way flattened closure datasets are usually exchanged.
//
// Usage:
//
//	obo-closure --obo gene_ontology.obo GO:0060070 GO:0008150
//
// Term ids are taken from the command line, or from a column of
// tab-delimited input when none are given.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/obokit/obokit/internal/cli"
)

var (
	loadOpts cli.LoadOptions
	colOpts  cli.ColOptions
	ioOpts   cli.IOOptions
	down     bool
)

var rootCmd = &cobra.Command{
	Use:   "obo-closure [term-id ...]",
	Short: "Print the ancestor or descendant closure of ontology terms",
	Long: `This command prints, for each input term, the complete closure of the
term over the ontology's relation graph: all ancestors by default, or all
descendants with --down. Each output line holds the seed term id followed by
the closure members in lexical order.

    obo-closure --obo go.obo GO:0060070

With no term arguments, ids are read from a column of tab-delimited input.`,
	RunE: run,
}

func init() {
	cli.AddLoadFlags(rootCmd, &loadOpts)
	cli.AddColFlags(rootCmd, &colOpts)
	cli.AddIOFlags(rootCmd, &ioOpts)
	rootCmd.Flags().BoolVar(&down, "down", false,
		"print descendant closures instead of ancestor closures")
}

func run(cmd *cobra.Command, args []string) error {
	ontology, err := loadOpts.LoadOntology()
	if err != nil {
		return fmt.Errorf("loading ontology: %w", err)
	}

	ids := args
	if len(ids) == 0 {
		inFile, err := cli.OpenInput(ioOpts.Input)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		ids, err = cli.ReadGenes(inFile, colOpts.Col, colOpts.NoHead)
		inFile.Close()
		if err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no term ids given")
	}

	outFile, err := cli.OpenOutput(ioOpts.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer outFile.Close()

	writer := cli.NewTabWriter(outFile)
	defer writer.Flush()

	for _, id := range ids {
		var closure map[string]bool
		if down {
			closure, err = ontology.DescendantClosure(id)
		} else {
			closure, err = ontology.AncestorClosure(id)
		}
		if err != nil {
			return fmt.Errorf("closure of %s: %w", id, err)
		}

		members := make([]string, 0, len(closure))
		for member := range closure {
			if member != id {
				members = append(members, member)
			}
		}
		sort.Strings(members)

		row := append([]string{id}, members...)
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
