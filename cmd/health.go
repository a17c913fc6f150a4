package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"grimm.is/nftjson/internal/health"
	"grimm.is/nftjson/internal/kernel"
)

func (a *app) kernelReader() *kernel.Reader {
	ns := ""
	if a.cfg.NFT != nil {
		ns = a.cfg.NFT.Namespace
	}
	return kernel.NewReader(ns)
}

func (a *app) healthChecker(lister health.Lister) *health.Checker {
	c := health.NewChecker()
	c.Register("program", health.ProgramCheck(a.cfg.ClientConfig().Program))
	c.Register("ruleset", health.RulesetCheck(lister))
	c.Register("kernel", health.KernelCheck(a.kernelReader()))
	return c
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that nft and the kernel ruleset are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := a.healthChecker(a.client()).Check(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Status == health.StatusUnhealthy {
				return fmt.Errorf("status %s", report.Status)
			}
			return nil
		},
	}
}
