package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/rustnav/internal/config"
	"github.com/jcdickinson/rustnav/internal/markdown"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a Rust item path and print its documentation",
	Example: `  rustnav resolve serde::Serialize
  rustnav resolve tokio@1::sync::Mutex
  rustnav resolve std::vec::Vec`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	nav, _, err := buildNavigator(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize providers: %v", err)
	}

	handle, err := nav.ResolvePath(ctx, args[0])
	if err != nil {
		log.Fatalf("resolve failed: %v", err)
	}

	if handle.Item.Docs != nil {
		fmt.Println(markdown.RenderDocs(ctx, nav, handle, *handle.Item.Docs))
	}
	for _, frag := range handle.Fragments() {
		fmt.Printf("\n## %s\n\n%s\n", frag.Name, frag.Content)
	}
}
