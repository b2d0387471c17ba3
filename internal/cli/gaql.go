package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/searchads/searchads/internal/gads"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/value"
)

func newGaqlCmd(pool *registry.Pool, v *viper.Viper) *cobra.Command {
	gaql := &cobra.Command{
		Use:   "gaql",
		Short: "Run GAQL queries",
	}
	gaql.AddCommand(newGaqlSearchCmd(pool, v))
	return gaql
}

func newGaqlSearchCmd(pool *registry.Pool, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Query rows with GAQL via SearchStream (or Search with --use-search)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			id, err := customerID(v)
			if err != nil {
				return err
			}

			c, cfg, err := dial(ctx, v)
			if err != nil {
				return err
			}
			defer c.Close()

			args := gads.SearchArgs{
				CustomerID:              id,
				Query:                   v.GetString("query"),
				UseSearch:               v.GetBool("use-search"),
				ValidateOnly:            v.GetBool("validate-only"),
				ReturnTotalResultsCount: v.GetBool("return-total-results-count"),
				Raw:                     cfg.raw,
				JSONL:                   cfg.jsonl,
			}
			if cmd.Flags().Changed("page-size") {
				ps := v.GetInt64("page-size")
				args.PageSize = &ps
			}
			if cmd.Flags().Changed("page-token") {
				pt := v.GetString("page-token")
				args.PageToken = &pt
			}
			if cmd.Flags().Changed("summary-row-setting") {
				srs := v.GetString("summary-row-setting")
				args.SummaryRowSetting = &srs
			}

			out := cmd.OutOrStdout()
			emit := func(row value.Value) error {
				return printValue(out, row, false)
			}

			result, err := gads.RunSearch(ctx, c, pool, args, emit)
			if err != nil {
				return err
			}
			if result.Emitted {
				return nil
			}
			return printValue(out, result.Value, cfg.pretty)
		},
	}

	f := cmd.Flags()
	f.String("customer-id", "", "customer id to query (env: GOOGLE_ADS_CUSTOMER_ID)")
	f.String("query", "", "GAQL query text")
	f.Bool("use-search", false, "use the paged unary Search instead of SearchStream")
	f.Int64("page-size", 0, "page size (Search only)")
	f.String("page-token", "", "page token from a previous response (Search only)")
	f.Bool("validate-only", false, "validate the query without executing it")
	f.String("summary-row-setting", "", "summary row setting enum name")
	f.Bool("return-total-results-count", false, "include the total results count (Search only)")
	cobra.CheckErr(cmd.MarkFlagRequired("query"))
	return cmd
}
