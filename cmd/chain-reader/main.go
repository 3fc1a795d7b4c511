package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/baysao/massbitprotocol/pkg/api"
	"github.com/baysao/massbitprotocol/pkg/config"
	"github.com/baysao/massbitprotocol/pkg/hub"
	"github.com/baysao/massbitprotocol/pkg/ingestor"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/metrics"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chain-reader",
	Short: "Chain reader - multi-chain block ingestion and streaming server",
	Long: `Chain reader follows the heads of the configured blockchains,
normalizes finalized blocks into uniform envelopes, and streams them
over gRPC to indexer workers.`,
	Version: Version,
	RunE:    run,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"chain-reader version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.Flags().String("config", "", "Chain configuration file (YAML)")
	rootCmd.Flags().String("addr", "", "gRPC listen address (overrides config)")
	rootCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Prometheus metrics listen address (empty to disable)")

	cobra.OnInitialize(initLogging)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

func run(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	addr, _ := cmd.Flags().GetString("addr")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Listen = addr
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	h := hub.New(hub.DefaultRingSize)
	logger := log.WithComponent("chain-reader")

	var wg sync.WaitGroup
	for _, key := range cfg.ChainKeys() {
		chainCfg, ok := cfg.ChainConfig(key)
		if !ok {
			continue
		}

		pub, err := h.Register(key)
		if err != nil {
			return err
		}
		ing, err := ingestor.New(chainCfg, key, pub)
		if err != nil {
			// Configuration error for this chain only; others keep
			// running.
			logger.Error().Err(err).Str("chain", key.String()).Msg("Skipping chain")
			pub.Close()
			continue
		}

		wg.Add(1)
		go func(key fmt.Stringer) {
			defer wg.Done()
			if err := ing.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Str("chain", key.String()).Msg("Ingestor terminated")
			}
		}(key)
		logger.Info().Str("chain", key.String()).Msg("Started ingestor")
	}

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Warn().Err(err).Msg("Metrics server stopped")
			}
		}()
		logger.Info().Str("addr", metricsAddr).Msg("Metrics listening")
	}

	server := api.NewServer(h)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(cfg.Listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	cancel()
	server.Stop()
	wg.Wait()
	return nil
}
