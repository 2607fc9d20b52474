package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/scraper"
	"github.com/sells-group/brand-insights/internal/store"
)

var scrapeSave bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Extract brand context from a single storefront",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("scrape"); err != nil {
			return err
		}
		ctx := cmd.Context()

		bc, err := scraper.GetInsights(ctx, args[0], cfg.Scrape)
		if err != nil {
			return err
		}

		if scrapeSave || cfg.Store.Enabled {
			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveBrandContext(ctx, bc); err != nil {
				return err
			}
			zap.L().Info("scrape: saved", zap.String("site", bc.SiteURL))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(bc), "scrape: encode output")
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeSave, "save", false, "persist the result to the configured store")
	rootCmd.AddCommand(scrapeCmd)
}
