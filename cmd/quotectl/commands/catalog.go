package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anshumaan69/tenderflow/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog products and services",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	inventory, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tUNIT PRICE\tUNIT")
	for _, p := range inventory.Products() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Category, p.UnitPrice, p.Unit)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ID\tSERVICE\tPRICE")
	for _, s := range inventory.Services() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.ID, s.Name, s.Price)
	}
	return w.Flush()
}
