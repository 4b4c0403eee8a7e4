package cmd

import (
	"context"

	"github.com/jcdickinson/rustnav/internal/cache"
	"github.com/jcdickinson/rustnav/internal/config"
	"github.com/jcdickinson/rustnav/internal/navigator"
	"github.com/jcdickinson/rustnav/internal/search"
	"github.com/jcdickinson/rustnav/internal/source"
)

// buildNavigator wires up a Navigator from cfg: Std/Local providers are
// included only when discoverable in the current environment (`rustup`
// with a nightly toolchain / `cargo metadata` on PATH), Remote is always present. Grounded on
// the teacher's connectDaemon, which built its dependency graph
// (config -> db -> server) in one place for both the real and
// in-process debug paths.
func buildNavigator(ctx context.Context, cfg *config.Config) (*navigator.Navigator, *cache.DiskCache, error) {
	diskCache := cache.New(cfg.Cache.Dir)
	remote := buildRemoteSource(cfg, diskCache)

	var std source.Provider
	if s, ok := source.DiscoverStdSource(ctx); ok {
		std = s
	}

	var local source.Provider
	if lc, ok := source.DiscoverLocalContext(ctx, cfg.Local.ProjectRoot); ok {
		local = source.NewLocalSource(lc, cfg.Local.CanRebuild)
	}

	nav := navigator.New(std, local, remote)
	return nav, diskCache, nil
}

// buildRemoteSource applies cfg's [remote] overrides over the
// production defaults. Split out from buildNavigator so commands that
// only need registry search (cmd/find.go) don't have to stand up a
// full Navigator.
func buildRemoteSource(cfg *config.Config, diskCache *cache.DiskCache) *source.RemoteSource {
	remote := source.NewRemoteSource(diskCache)
	if cfg.Remote.RegistryBase != "" {
		remote.RegistryBase = cfg.Remote.RegistryBase
	}
	if cfg.Remote.DocsBase != "" {
		remote.DocsBase = cfg.Remote.DocsBase
	}
	return remote
}

// searchOptions builds search.Options from cfg's [search] section.
func searchOptions(cfg *config.Config) search.Options {
	opts := search.DefaultOptions
	if cfg.Search.K1 > 0 {
		opts.BM25.K1 = cfg.Search.K1
	}
	if cfg.Search.B > 0 {
		opts.BM25.B = cfg.Search.B
	}
	if cfg.Search.DropOffFraction > 0 {
		opts.DropOffFraction = cfg.Search.DropOffFraction
	}
	if cfg.Search.MaxResults > 0 {
		opts.MaxResults = cfg.Search.MaxResults
	}
	return opts
}
