package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcdickinson/rustnav/internal/config"
	"github.com/jcdickinson/rustnav/internal/mcp"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rustnav",
	Short: "Rust documentation navigation and search MCP server",
	Long: `rustnav resolves and searches Rust crate documentation built
from rustdoc JSON: it consults the standard library's prebuilt JSON,
the current Cargo workspace (rebuilding its JSON with "cargo doc" when
stale), and docs.rs/crates.io, in that priority order.`,
	RunE: runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCratesCmd)
	rootCmd.AddCommand(findCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	nav, diskCache, err := buildNavigator(ctx, cfg)
	if err != nil {
		return err
	}
	remote := buildRemoteSource(cfg, diskCache)

	server := mcp.NewServer(nav, diskCache, searchOptions(cfg), remote)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Printf("received signal: %s", sig)
		return nil
	case err := <-errCh:
		return err
	}
}
