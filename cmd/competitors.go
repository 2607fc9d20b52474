package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/competitors"
	"github.com/sells-group/brand-insights/internal/discovery"
	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/scraper"
)

var (
	competitorsDiscover bool
	competitorsLimit    int
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors <url> [competitor-urls...]",
	Short: "Extract brand context across competitor storefronts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("competitors"); err != nil {
			return err
		}
		ctx := cmd.Context()
		siteURL := args[0]
		urls := args[1:]

		if len(urls) == 0 && competitorsDiscover {
			d := discovery.New(cfg.Discovery)
			if d == nil {
				return eris.New("competitors: no discovery backend configured")
			}
			urls = d.Discover(ctx, siteURL, competitorsLimit)
			zap.L().Info("competitors: discovered", zap.Int("count", len(urls)))
		}
		if len(urls) == 0 {
			return eris.New("competitors: no competitor urls supplied or discovered")
		}

		scrape := func(ctx context.Context, url string) (*model.BrandContext, error) {
			return scraper.GetInsights(ctx, url, cfg.Scrape)
		}
		results := competitors.FetchAll(ctx, urls, cfg.Scrape.MaxFanout, scrape)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(results), "competitors: encode output")
	},
}

func init() {
	competitorsCmd.Flags().BoolVar(&competitorsDiscover, "discover", false, "discover competitors when none are supplied")
	competitorsCmd.Flags().IntVar(&competitorsLimit, "limit", 5, "max competitors to discover")
	rootCmd.AddCommand(competitorsCmd)
}
