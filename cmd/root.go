package main

import (
	"fmt"

	"github.com/spf13/cobra"

	configs "dailydsa/config"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var rootCmd = &cobra.Command{
	Use:           "dailydsa",
	Short:         "Daily DSA practice bot",
	Long:          "dailydsa posts daily coding problems to chat communities, tracks completions and keeps a points leaderboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runBot(cmd.Context(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "dailydsa", version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "", "Path to the problem catalog CSV (overrides CATALOG_PATH)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for file snapshots (overrides DATA_DIR)")
	rootCmd.Flags().String("backend", "", "Storage backend: file, redis or mongo (overrides STORAGE_BACKEND)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCatalogCmd)
}

// loadConfig reads the environment and applies flag overrides. Only the bot
// itself needs the full config to validate.
func loadConfig(cmd *cobra.Command) (configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return configs.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	if d, _ := cmd.Flags().GetString("data-dir"); d != "" {
		cfg.DataDir = d
	}
	if cmd.Flags().Lookup("backend") != nil {
		if b, _ := cmd.Flags().GetString("backend"); b != "" {
			cfg.StorageBackend = b
		}
	}
	return cfg, nil
}
