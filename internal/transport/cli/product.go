package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scgursel/kakule-katalog/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show [id or product code]",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the sample catalog into the product store",
	Long: `Writes the bundled sample products into Redis (or PostgreSQL with
--source postgres) and drops the cached product list.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(showCmd, seedCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := openClient(cmd, sourceFlag)
	if err != nil {
		return err
	}
	defer c.Close()

	p, err := c.Product(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("show failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, p)
	}

	cmd.Printf("%s (%s)\n", p.Name, p.ProductCode)
	cmd.Printf("  ID:        %s\n", p.ID)
	cmd.Printf("  Category:  %s\n", p.Category)
	if p.Specs.Width != "" {
		cmd.Printf("  Width:     %s\n", p.Specs.Width)
	}
	if p.Specs.Color != "" {
		cmd.Printf("  Color:     %s\n", p.Specs.Color)
	}
	if p.Specs.Material != "" {
		cmd.Printf("  Material:  %s\n", p.Specs.Material)
	}
	cmd.Printf("  Available: %t\n", p.Availability)
	if p.ShortDescription != "" {
		cmd.Println()
		cmd.Println("  " + p.ShortDescription)
	}
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	source := sourceFlag
	if source == config.SourceSample {
		source = config.SourceRedis
	}

	c, err := openClient(cmd, source)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Seed(context.Background())
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	cmd.Printf("Seeded %d products into %s.\n", n, source)
	return nil
}
