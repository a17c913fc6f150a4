package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"grimm.is/nftjson/internal/metrics"
)

func newMetricsCommand(a *app) *cobra.Command {
	var (
		listen    string
		useKernel bool
	)
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve Prometheus metrics for the current ruleset",
		Long: `Metrics periodically lists the ruleset and exports named counters,
quotas, anonymous rule counters and set sizes on /metrics. Health reports
are served on /healthz and /readyz. With --netlink the ruleset is read over
netlink instead of through nft; only tables, chains and set sizes are
available that way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = a.cfg.Metrics.Listen
			}
			interval, err := a.cfg.MetricsInterval()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			a.metrics = metrics.New(reg)

			var lister metrics.Lister = a.client()
			if useKernel {
				lister = a.kernelReader()
			}

			ctx := cmd.Context()
			collector := metrics.NewCollector(a.metrics, lister, a.logger, interval)
			go collector.Start(ctx)
			defer collector.Stop()

			checker := a.healthChecker(lister)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
			mux.Handle("/healthz", checker.Handler())
			mux.Handle("/readyz", checker.ReadinessHandler())
			srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			a.logger.Info("serving metrics", "listen", listen, "interval", interval.String())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&useKernel, "netlink", false, "read the ruleset over netlink instead of nft")
	return cmd
}
