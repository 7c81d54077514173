package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var popularLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Complete a partial query from catalog tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most frequent catalog tags",
	Args:  cobra.NoArgs,
	RunE:  runPopular,
}

func init() {
	popularCmd.Flags().IntVarP(&popularLimit, "limit", "n", 10, "number of tags")
	rootCmd.AddCommand(suggestCmd, popularCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	c, err := openClient(cmd, sourceFlag)
	if err != nil {
		return err
	}
	defer c.Close()

	tags, err := c.Suggest(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}
	return outputTags(cmd, tags, "No suggestions.")
}

func runPopular(cmd *cobra.Command, _ []string) error {
	c, err := openClient(cmd, sourceFlag)
	if err != nil {
		return err
	}
	defer c.Close()

	if popularLimit <= 0 {
		return outputTags(cmd, []string{}, "No tags.")
	}
	tags, err := c.PopularTags(context.Background(), popularLimit)
	if err != nil {
		return fmt.Errorf("popular tags failed: %w", err)
	}
	return outputTags(cmd, tags, "No tags.")
}

func outputTags(cmd *cobra.Command, tags []string, empty string) error {
	if jsonOutput {
		return printJSON(cmd, tags)
	}
	if len(tags) == 0 {
		cmd.Println(empty)
		return nil
	}
	for _, t := range tags {
		cmd.Println(t)
	}
	return nil
}
