package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/recommend"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Restaurant catalog tools",
}

var catalogInspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Parse a catalog file and print its restaurants",
	Long:  `Reads a .yaml, .yml or .xlsx catalog, validates it and prints every entry. Without a file the built-in catalog is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogInspect,
}

func init() {
	catalogCmd.AddCommand(catalogInspectCmd)
}

func runCatalogInspect(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	catalog, err := recommend.LoadCatalog(path)
	if err != nil {
		return err
	}
	printCatalog(cmd.OutOrStdout(), catalog)
	return nil
}

func printCatalog(w io.Writer, catalog []models.Restaurant) {
	fmt.Fprintf(w, "%-6s %-20s %-10s %-6s %5s %6s\n", "ID", "NAME", "MENU", "PRICE", "WALK", "RATING")
	perMenu := make(map[string]int)
	for _, r := range catalog {
		fmt.Fprintf(w, "%-6s %-20s %-10s %-6s %4dm %6.1f\n", r.ID, r.Name, r.Type, r.Price, r.Distance, r.Rating)
		perMenu[string(r.Type)]++
	}

	menus := make([]string, 0, len(perMenu))
	for m := range perMenu {
		menus = append(menus, m)
	}
	sort.Strings(menus)

	fmt.Fprintf(w, "\n%d restaurants", len(catalog))
	for _, m := range menus {
		fmt.Fprintf(w, ", %s %d", m, perMenu[m])
	}
	fmt.Fprintln(w)
}
