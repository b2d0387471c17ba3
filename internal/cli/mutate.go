package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/searchads/searchads/internal/gads"
	"github.com/searchads/searchads/internal/input"
	"github.com/searchads/searchads/internal/registry"
)

func newMutateCmd(pool *registry.Pool, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Apply a batch of mutate operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			id, err := customerID(v)
			if err != nil {
				return err
			}

			args := gads.MutateArgs{
				CustomerID:          id,
				PartialFailure:      v.GetBool("partial-failure"),
				ValidateOnly:        v.GetBool("validate-only"),
				ResponseContentType: v.GetString("response-content-type"),
			}
			if cmd.Flags().Changed("ops") {
				ops, err := input.ReadJSON(v.GetString("ops"))
				if err != nil {
					return err
				}
				args.Ops = &ops
			}
			if cmd.Flags().Changed("body") {
				body, err := input.ReadJSON(v.GetString("body"))
				if err != nil {
					return err
				}
				args.Body = &body
			}

			c, cfg, err := dial(ctx, v)
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := gads.RunMutate(ctx, c, pool, args)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), resp, cfg.pretty)
		},
	}

	f := cmd.Flags()
	f.String("customer-id", "", "customer id to mutate (env: GOOGLE_ADS_CUSTOMER_ID)")
	f.String("ops", "", "mutate operations array (inline JSON, @file, or - for stdin)")
	f.String("body", "", "full request body, sent as-is (inline JSON, @file, or - for stdin)")
	f.Bool("partial-failure", false, "apply valid operations even when others fail")
	f.Bool("validate-only", false, "validate the operations without executing them")
	f.String("response-content-type", "", "response content type enum name")
	cmd.MarkFlagsMutuallyExclusive("ops", "body")
	return cmd
}
