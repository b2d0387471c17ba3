package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/searchads/searchads/internal/gads"
	"github.com/searchads/searchads/internal/input"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/value"
)

func newRawCmd(pool *registry.Pool, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raw",
		Short: "Invoke any visible method with a caller-supplied body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			body, err := input.ReadJSON(v.GetString("body"))
			if err != nil {
				return err
			}

			c, cfg, err := dial(ctx, v)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			emit := func(msg value.Value) error {
				return printValue(out, msg, false)
			}

			result, err := gads.RunRaw(ctx, c, pool, gads.RawArgs{
				Service: v.GetString("service"),
				Method:  v.GetString("method"),
				Body:    body,
				JSONL:   cfg.jsonl,
			}, emit)
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
	f.String("service", "", "service name (kebab, simple, or fully qualified)")
	f.String("method", "", "method name (kebab, simple, or fully qualified)")
	f.String("body", "", "request body (inline JSON, @file, or - for stdin)")
	cobra.CheckErr(cmd.MarkFlagRequired("service"))
	cobra.CheckErr(cmd.MarkFlagRequired("method"))
	cobra.CheckErr(cmd.MarkFlagRequired("body"))
	return cmd
}
