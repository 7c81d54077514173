package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scgursel/kakule-katalog"
)

var (
	searchLimit     int
	searchCategory  string
	searchColor     string
	searchMaterial  string
	searchAvailable string
	searchFeatured  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the product catalog",
	Long: `Ranks catalog products against a free-text query.
Tags, product code, name and specs are matched ignoring case and Turkish
diacritics. Without a query, the filters alone select products.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	f.StringVar(&searchCategory, "category", "", "only this category id")
	f.StringVar(&searchColor, "color", "", "only this colour")
	f.StringVar(&searchMaterial, "material", "", "only this material")
	f.StringVar(&searchAvailable, "available", "", "only available (true) or unavailable (false) products")
	f.BoolVar(&searchFeatured, "featured", false, "only featured products")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	opts := kakule.SearchOptions{
		Category: searchCategory,
		Color:    searchColor,
		Material: searchMaterial,
		Featured: searchFeatured,
		Limit:    searchLimit,
	}
	if searchAvailable != "" {
		v, err := strconv.ParseBool(searchAvailable)
		if err != nil {
			return fmt.Errorf("--available must be true or false, got %q", searchAvailable)
		}
		opts.Availability = &v
	}

	c, err := openClient(cmd, sourceFlag)
	if err != nil {
		return err
	}
	defer c.Close()

	hits, err := c.Search(context.Background(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, hits)
	}
	outputSearchTable(cmd, hits)
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []kakule.Hit) {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		p := &hits[i].Product
		// Format: [N] Name (code) score
		cmd.Printf("  [%d] %s (%s) %d\n", i+1, p.Name, p.ProductCode, hits[i].Score)
		if len(p.Tags) > 0 {
			cmd.Printf("      %s\n", strings.Join(p.Tags, ", "))
		}
	}
}
