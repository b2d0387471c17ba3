package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/searchads/searchads/internal/registry"
)

func newListCmd(pool *registry.Pool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available services and methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree := registry.BuildCommandTree(pool)
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()
			if jsonOut {
				return printStruct(out, tree.Services)
			}
			for _, svc := range tree.Services {
				fmt.Fprintln(out, svc.Name)
				for _, m := range svc.Methods {
					fmt.Fprintf(out, "  %s\n", m.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "emit machine-readable JSON")
	return cmd
}

func newDescribeCmd(pool *registry.Pool) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <service> <method>",
		Short: "Describe a method's request and response shapes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, err := registry.DescribeMethod(pool, args[0], args[1])
			if err != nil {
				return err
			}
			return printStruct(cmd.OutOrStdout(), description)
		},
	}
}

func newTreeCmd(pool *registry.Pool) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Dump the full command tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printStruct(cmd.OutOrStdout(), registry.BuildCommandTree(pool))
		},
	}
}
