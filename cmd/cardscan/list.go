package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved contacts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listLimit  int
	listOffset int
	listFormat string
)

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum number of contacts (0 for all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of contacts to skip")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format: table, json, csv or vcf")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	cs, err := a.Contacts.List(ctx, repository.ListOpts{Limit: listLimit, Offset: listOffset})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listFormat != "table" {
		recs := make([]contact.Record, len(cs))
		for i, c := range cs {
			recs[i] = c.Record()
		}
		return printRecords(out, listFormat, recs)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tPHONE\tEMAIL\tSAVED")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID.String()[:8], c.Name, c.Company, c.Phone, c.Email, c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
