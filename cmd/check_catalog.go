package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dailydsa/catalog"
)

var checkCatalogCmd = &cobra.Command{
	Use:   "check-catalog",
	Short: "Load the problem catalog and report what the bot would see",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, warnings, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d problems\n", cfg.CatalogPath, c.Len())
		for _, d := range c.Difficulties() {
			fmt.Fprintf(out, "  difficulty %s\n", d)
		}
		fmt.Fprintf(out, "  %d topics\n", len(c.Topics()))
		for _, w := range warnings {
			fmt.Fprintf(out, "warning: %v\n", w)
		}
		return nil
	},
}
