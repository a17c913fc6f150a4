package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newApplyCommand(a *app) *cobra.Command {
	var (
		replace      bool
		allowUnknown bool
	)
	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Apply an nftables JSON document as one transaction",
		Long: `Apply decodes FILE ("-" for stdin) and pipes it to "nft -j -f -".
The document is validated locally first, so schema errors never reach nft.
With --replace the current ruleset is flushed in the same transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := a.decode(data, allowUnknown)
			if err != nil {
				return err
			}

			c := a.client()
			if replace {
				err = c.ReplaceRuleset(cmd.Context(), doc)
			} else {
				err = c.Apply(cmd.Context(), doc)
			}
			if err != nil {
				return err
			}
			a.logger.Info("applied ruleset", "objects", len(doc.Objects), "replace", replace)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d objects\n", len(doc.Objects))
			return err
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "flush the ruleset before adding the document's objects")
	cmd.Flags().BoolVar(&allowUnknown, "allow-unknown", false, "ignore object keys the schema does not know")
	return cmd
}

func newCheckCommand(a *app) *cobra.Command {
	var allowUnknown bool
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a document with nft without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := a.decode(data, allowUnknown)
			if err != nil {
				return err
			}
			if err := a.client().Check(cmd.Context(), doc); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ruleset is valid")
			return err
		},
	}
	cmd.Flags().BoolVar(&allowUnknown, "allow-unknown", false, "ignore object keys the schema does not know")
	return cmd
}
