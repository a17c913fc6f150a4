package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"grimm.is/nftjson/internal/diff"
)

// errDiffers is returned by "diff --exit-code" when changes are pending.
var errDiffers = errors.New("ruleset differs")

func newDiffCommand(a *app) *cobra.Command {
	var (
		unified      bool
		apply        bool
		exitCode     bool
		allowUnknown bool
	)
	cmd := &cobra.Command{
		Use:   "diff FILE",
		Short: "Compare the current ruleset against a desired document",
		Long: `Diff lists the current ruleset and prints the commands that would turn
it into FILE ("-" for stdin). Handles, metainfo and object order between
chains are ignored. With --unified a text diff of both documents is printed
instead; with --apply the commands are applied as one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			desired, err := a.decode(data, allowUnknown)
			if err != nil {
				return err
			}

			c := a.client()
			current, err := c.ListRuleset(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list running ruleset: %w", err)
			}

			plan := diff.Plan(current, desired)
			out := cmd.OutOrStdout()

			if plan.Len() == 0 {
				_, err := fmt.Fprintln(out, "No changes detected.")
				return err
			}

			if unified {
				text, err := diff.Unified(diff.Normalize(current), diff.Normalize(desired), "running", args[0])
				if err != nil {
					return err
				}
				if _, err := fmt.Fprint(out, text); err != nil {
					return err
				}
			} else if err := printDocument(out, plan.Document(), false); err != nil {
				return err
			}

			if apply {
				if err := c.Apply(cmd.Context(), plan.Document()); err != nil {
					return err
				}
				a.logger.Info("applied diff", "commands", plan.Len())
				return nil
			}
			if exitCode {
				return errDiffers
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "print a unified text diff instead of commands")
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the computed commands")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the rulesets differ")
	cmd.Flags().BoolVar(&allowUnknown, "allow-unknown", false, "ignore object keys the schema does not know")
	return cmd
}
