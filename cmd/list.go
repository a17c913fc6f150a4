package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var (
		raw     bool
		compact bool
	)
	cmd := &cobra.Command{
		Use:   "list [NFT ARGS...]",
		Short: "List the current ruleset through nft",
		Long: `List runs "nft -j list ruleset" (or "nft -j" followed by the given
arguments, e.g. "list table inet filter") and prints the decoded result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.client()
			if raw {
				out, err := c.ListRaw(cmd.Context(), args...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
				return err
			}
			doc, err := c.List(cmd.Context(), args...)
			if err != nil {
				return err
			}
			return printDocument(cmd.OutOrStdout(), doc, compact)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print nft's output without decoding")
	cmd.Flags().BoolVar(&compact, "compact", false, "print without indentation")
	return cmd
}
