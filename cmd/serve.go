package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ambuflow/ambuflow/api/rounds"
	"github.com/ambuflow/ambuflow/config"
	"github.com/ambuflow/ambuflow/core/dispatch"
	"github.com/ambuflow/ambuflow/infra/logger"
	"github.com/ambuflow/ambuflow/infra/metrics"
	"github.com/ambuflow/ambuflow/internal/eventbus"
)

var serveInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run rounds periodically and expose them over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 30*time.Second, "delay between optimization rounds")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("serve-command")

	sink, err := metrics.NewSinks(cfg.Metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logg.Errorf("sink close: %v", err)
		}
	}()
	if cfg.Metrics.PrometheusEnabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.PrometheusPort)
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	bus := eventbus.New[*dispatch.Result]()
	defer bus.Close()
	store := rounds.NewStore(cfg.API.RetainRounds)
	go rounds.Watch(bus, store)

	mux := http.NewServeMux()
	mux.Handle("/api/rounds", rounds.NewHandler(store))
	srv := &http.Server{Addr: cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logg.Errorf("api shutdown: %v", err)
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Errorf("api server: %v", err)
		}
	}()
	logg.Infof("serving rounds on %s every %s", cfg.API.Addr, serveInterval)

	rng := newRand(cfg.Seed)
	ticker := time.NewTicker(serveInterval)
	defer ticker.Stop()
	for {
		res, err := runRound(ctx, cfg, rng, logg, sink)
		if err != nil {
			logg.Errorf("round failed: %v", err)
		} else {
			bus.Publish(res)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
