package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/baysao/massbitprotocol/pkg/adapter"
	"github.com/baysao/massbitprotocol/pkg/client"
	"github.com/baysao/massbitprotocol/pkg/config"
	"github.com/baysao/massbitprotocol/pkg/consumer"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/manifest"
	"github.com/baysao/massbitprotocol/pkg/storage"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
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
	Use:   "indexer",
	Short: "Indexer - deploy and run chain indexers against a chain reader",
	Long: `Indexer deploys user handler modules, subscribes them to block
streams from a chain reader, and persists derived entities through the
entity store.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"indexer version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("data-dir", "./data", "Directory for local state")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(helloCmd)

	deployCmd.Flags().String("id", "", "Indexer ID (generated if empty)")
	deployCmd.Flags().String("manifest", "project.yaml", "Project manifest file")
	deployCmd.Flags().String("mapping", "", "Handler module (.so native plugin or .wasm bytecode)")
	removeCmd.Flags().String("id", "", "Indexer ID to remove (required)")
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy an indexer and start processing blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		indexerID, _ := cmd.Flags().GetString("id")
		manifestPath, _ := cmd.Flags().GetString("manifest")
		mappingPath, _ := cmd.Flags().GetString("mapping")
		dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")

		if mappingPath == "" {
			return fmt.Errorf("--mapping is required")
		}
		if indexerID == "" {
			indexerID = uuid.New().String()
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}

		cfg, err := config.Load("")
		if err != nil {
			return err
		}

		var source manifest.Source = manifest.LocalSource{}
		manifestPath, err = source.Resolve(manifestPath)
		if err != nil {
			return err
		}
		mappingPath, err = source.Resolve(mappingPath)
		if err != nil {
			return err
		}

		m, err := manifest.Load(manifestPath)
		if err != nil {
			return err
		}

		registry, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return err
		}
		defer registry.Close()

		entities, err := storage.NewBoltEntityStore(dataDir)
		if err != nil {
			return err
		}
		defer entities.Close()

		state := store.NewIndexerState(indexerID, entities)
		dataSources, err := m.EthereumDataSources()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		adapters := adapter.NewManager()
		adapterName := m.AdapterName()
		if strings.HasSuffix(mappingPath, ".wasm") {
			wasmBytes, err := os.ReadFile(mappingPath)
			if err != nil {
				return err
			}
			proxy, err := adapter.NewWasmHandlerProxy(ctx, adapterName, wasmBytes)
			if err != nil {
				return err
			}
			defer proxy.Close(context.Background())
			adapters.Register(indexerID, map[string]adapter.HandlerProxy{adapterName: proxy})
		} else {
			if err := adapters.Load(indexerID, mappingPath, dataSources, state); err != nil {
				return err
			}
			defer adapters.Unload(indexerID)
		}

		if err := registry.CreateIndexer(&storage.Indexer{
			ID:        indexerID,
			Name:      strings.TrimSuffix(filepath.Base(manifestPath), filepath.Ext(manifestPath)),
			Network:   m.Network(),
			ChainType: m.ChainType(),
			Status:    "running",
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}

		reader, err := client.NewClient(cfg.Env.ChainReaderURL)
		if err != nil {
			return err
		}
		defer reader.Close()

		c, err := consumer.New(consumer.Config{
			IndexerID:   indexerID,
			AdapterName: adapterName,
			ChainKey:    types.ChainKey{Chain: m.ChainType(), Network: m.Network()},
			StartBlock:  m.StartBlock(),
			Client:      reader,
			Adapters:    adapters,
			State:       state,
			Cursors:     registry,
		})
		if err != nil {
			return err
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Logger.Info().Str("signal", sig.String()).Msg("Shutting down")
			cancel()
		}()

		fmt.Printf("Deployed indexer %s (%s/%s)\n", indexerID, m.AdapterName(), m.Network())
		err = c.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployed indexers",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
		registry, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return err
		}
		defer registry.Close()

		indexers, err := registry.ListIndexers()
		if err != nil {
			return err
		}
		fmt.Printf("%-38s %-20s %-10s %-10s %s\n", "ID", "NAME", "CHAIN", "NETWORK", "STATUS")
		for _, idx := range indexers {
			cursor, ok, _ := registry.GetCursor(idx.ID)
			status := idx.Status
			if ok {
				status = fmt.Sprintf("%s @ %d", status, cursor)
			}
			fmt.Printf("%-38s %-20s %-10s %-10s %s\n",
				idx.ID, idx.Name, idx.ChainType, idx.Network, status)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a deployed indexer",
	RunE: func(cmd *cobra.Command, args []string) error {
		indexerID, _ := cmd.Flags().GetString("id")
		if indexerID == "" {
			return fmt.Errorf("--id is required")
		}
		dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
		registry, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return err
		}
		defer registry.Close()

		if err := registry.DeleteIndexer(indexerID); err != nil {
			return err
		}
		fmt.Printf("Removed indexer %s\n", indexerID)
		return nil
	},
}

var helloCmd = &cobra.Command{
	Use:   "hello [name]",
	Short: "Probe the chain reader",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "indexer"
		if len(args) > 0 {
			name = args[0]
		}
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		reader, err := client.NewClient(cfg.Env.ChainReaderURL)
		if err != nil {
			return err
		}
		defer reader.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		message, err := reader.SayHello(ctx, name)
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}
