package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/rustnav/internal/config"
	"github.com/spf13/cobra"
)

var listCratesCmd = &cobra.Command{
	Use:   "list-crates",
	Short: "List crates known to the standard-library and local-workspace providers",
	Run:   runListCrates,
}

func runListCrates(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	nav, _, err := buildNavigator(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize providers: %v", err)
	}

	infos, err := nav.ListAvailableCrates(ctx)
	if err != nil {
		log.Fatalf("list-crates failed: %v", err)
	}
	if len(infos) == 0 {
		fmt.Println("no crates known")
		return
	}
	for _, info := range infos {
		fmt.Printf("  %-30s %-10s (%s)\n", info.Name, info.Version.String(), info.Provenance)
	}
}
