package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/opacbridge/opac"
)

var (
	workflow     string
	outputFile   string
	outputFormat string
	pretty       bool
	dump         bool
)

var searchCmd = &cobra.Command{
	Use:   "search <catalogue> <field> <term>",
	Short: "Search a catalogue and print the mapped document",
	Long: `Search a catalogue for a term in a field and print the METS document built
from the first exact match.

Candidates returned by the backend are filtered for a value equal to the term;
a search without an exact match reports 0 hits and exits with status 0.

Examples:
  opacbridge search GND-Places gnd 4005728-8
  opacbridge search GND-Places gnd 4005728-8 --workflow Manuscripts -o place.xml
  opacbridge search demo identifier PPN123 --format json --dump`,
	Args: cobra.ExactArgs(3),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&workflow, "workflow", "w", "", "Workflow name for config block selection")
	searchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	searchCmd.Flags().StringVarP(&outputFormat, "format", "f", "mets", "Output format (mets, json)")
	searchCmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print output")
	searchCmd.Flags().BoolVar(&dump, "dump", false, "Dump the matched record and mapping to stderr")
}

func runSearch(cmd *cobra.Command, args []string) (err error) {
	svc, err := loadService()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if cerr := svc.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	res, err := svc.Search(ctx, args[0], opac.Request{
		Workflow: workflow,
		Field:    args[1],
		Term:     args[2],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Hits: %d\n", res.Hits)
	if !res.Found() {
		return nil
	}

	if dump {
		spew.Fdump(os.Stderr, res.Record, res.Resolved)
	}

	var output io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	}

	if err := res.Document.Write(output, outputFormat, pretty); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
