package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/rustnav/internal/cache"
	"github.com/jcdickinson/rustnav/internal/config"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search the crates registry by name or description",
	Long: `find searches crates.io itself for crates matching a name or
description, distinct from "search" which looks inside the crates it
is given, loading them as needed. Use find to discover which crate to load,
then resolve/search within it.`,
	Example: `  rustnav find "async runtime"`,
	Args:    cobra.ExactArgs(1),
	Run:     runFind,
}

var findLimit int

func init() {
	findCmd.Flags().IntVar(&findLimit, "limit", 20, "max results")
}

func runFind(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	remote := buildRemoteSource(cfg, cache.New(cfg.Cache.Dir))

	results, err := remote.SearchRegistry(ctx, args[0], findLimit)
	if err != nil {
		log.Fatalf("find failed: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("no crates found")
		return
	}
	for _, r := range results {
		fmt.Printf("  %-25s %-10s %8d downloads  %s\n", r.Name, r.MaxVersion, r.Downloads, r.Description)
	}
}
