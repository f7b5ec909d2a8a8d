package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cataloguesCmd = &cobra.Command{
	Use:   "catalogues",
	Short: "List configured catalogues",
	Long: `List the catalogues from the config file together with the backend and
vocabulary (database) each one searches.`,
	Args: cobra.NoArgs,
	RunE: runCatalogues,
}

func runCatalogues(cmd *cobra.Command, args []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}

	if len(app.Catalogues) == 0 {
		fmt.Println("No catalogues configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBACKEND\tDATABASE\tDESCRIPTION")
	for _, name := range app.CatalogueNames() {
		c, err := app.Catalogue(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Backend, c.Database, c.Description)
	}
	return w.Flush()
}
