// Package cli implements the catalogctl command line tool.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scgursel/kakule-katalog"
	"github.com/scgursel/kakule-katalog/internal/config"
	"github.com/scgursel/kakule-katalog/internal/logger"
)

var (
	sourceFlag   string
	redisAddr    string
	redisPass    string
	postgresDSN  string
	synonymsPath string
	jsonOutput   bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Query and seed the Kakule product catalog",
	Long: `catalogctl searches the Kakule frame and mat catalog from the terminal.
Products come from Redis, PostgreSQL or the bundled sample set.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&sourceFlag, "source", config.SourceSample, "product source: sample, redis or postgres")
	pf.StringVar(&redisAddr, "redis", "localhost:6379", "redis address")
	pf.StringVar(&redisPass, "redis-password", "", "redis password")
	pf.StringVar(&postgresDSN, "postgres", "", "postgres connection string")
	pf.StringVar(&synonymsPath, "synonyms", "", "YAML synonym table for ranking")
	pf.BoolVar(&jsonOutput, "json", false, "output as JSON")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck // cobra errors are printed as is
}

// openClient builds a catalog client for source from the persistent flags.
func openClient(cmd *cobra.Command, source string) (*kakule.Client, error) {
	log, err := logger.New(config.GetEnv(), logLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	opts := []kakule.Option{kakule.WithLogger(log)}
	if synonymsPath != "" {
		opts = append(opts, kakule.WithSynonymsFile(synonymsPath))
	}

	switch source {
	case config.SourceSample:
		opts = append(opts, kakule.WithSampleData())
	case config.SourceRedis:
		opts = append(opts, kakule.WithRedis(redisAddr, redisPass))
	case config.SourcePostgres:
		if postgresDSN == "" {
			return nil, fmt.Errorf("--postgres is required for source %q", source)
		}
		opts = append(opts, kakule.WithPostgres(postgresDSN))
		if cmd.Flags().Changed("redis") {
			opts = append(opts, kakule.WithRedis(redisAddr, redisPass))
		}
	default:
		return nil, fmt.Errorf("unknown source %q (want sample, redis or postgres)", source)
	}

	c, err := kakule.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return c, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
