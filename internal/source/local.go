package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/rustnav/internal/cratename"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/rustdocerr"
	"github.com/jcdickinson/rustnav/internal/semver"
)

// LocalContext is the subset of `cargo metadata`'s output LocalSource
// needs: the package's own name (for the "crate" alias), its workspace
// siblings, and its resolved dependency versions. Grounded on
// original_source/project.rs::LocalContext.
type LocalContext struct {
	ProjectRoot        string
	DefaultCrate       string // name of the single package, "" if a multi-package workspace
	WorkspacePackages  []string
	ResolvedDeps       map[string]string // name -> version
}

type cargoMetadata struct {
	Packages []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"packages"`
	WorkspaceMembers []string `json:"workspace_members"`
}

// DiscoverLocalContext runs `cargo metadata` from startDir, walking
// upward the way cargo itself discovers a workspace root.
func DiscoverLocalContext(ctx context.Context, startDir string) (*LocalContext, bool) {
	cmd := exec.CommandContext(ctx, "cargo", "metadata", "--no-deps", "--format-version", "1")
	cmd.Dir = startDir
	out, err := cmd.Output()
	if err != nil {
		return nil, false
	}
	var meta cargoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, false
	}

	lc := &LocalContext{ProjectRoot: startDir, ResolvedDeps: map[string]string{}}
	for _, p := range meta.Packages {
		lc.WorkspacePackages = append(lc.WorkspacePackages, p.Name)
	}
	if len(lc.WorkspacePackages) == 1 {
		lc.DefaultCrate = lc.WorkspacePackages[0]
	}

	// A second `cargo metadata` without --no-deps to capture the full
	// resolved dependency graph's versions would double the subprocess
	// cost for every lookup; resolved dependency versions are filled in
	// lazily by ResolveDependencyVersion when a LocalSource actually
	// needs one.
	return lc, true
}

func (lc *LocalContext) IsWorkspacePackage(name string) bool {
	for _, p := range lc.WorkspacePackages {
		if cratename.Equal(p, name) {
			return true
		}
	}
	return false
}

// ResolveDependencyVersion looks up (and caches) a dependency's
// resolved version via `cargo pkgid`, matching project.rs's
// get_dependency_version without paying for a full metadata walk on
// every LocalSource construction.
func (lc *LocalContext) ResolveDependencyVersion(ctx context.Context, name string) (string, bool) {
	if v, ok := lc.ResolvedDeps[name]; ok {
		return v, true
	}
	cmd := exec.CommandContext(ctx, "cargo", "pkgid", name)
	cmd.Dir = lc.ProjectRoot
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	// cargo pkgid prints e.g. "file:///.../tokio#1.40.0"
	line := strings.TrimSpace(string(out))
	idx := strings.LastIndexByte(line, '#')
	if idx < 0 {
		return "", false
	}
	version := line[idx+1:]
	lc.ResolvedDeps[name] = version
	return version, true
}

// LocalSource serves workspace-member and dependency crates, rebuilding
// their JSON docs on demand via `cargo doc`. Grounded on
// original_source/sources.rs::LocalSource.
type LocalSource struct {
	Context     *LocalContext
	TargetDir   string
	CanRebuild  bool
}

// NewLocalSource wraps a discovered context, defaulting TargetDir to
// "{project_root}/target" the way sources.rs::LocalSource::new does.
func NewLocalSource(ctx *LocalContext, canRebuild bool) *LocalSource {
	return &LocalSource{
		Context:    ctx,
		TargetDir:  filepath.Join(ctx.ProjectRoot, "target"),
		CanRebuild: canRebuild,
	}
}

func (s *LocalSource) Canonicalize(raw string) cratename.Name {
	return cratename.Canonicalize(raw, s.Context.DefaultCrate)
}

func (s *LocalSource) jsonPath(name cratename.Name) string {
	underscored := strings.ReplaceAll(string(name), "-", "_")
	return filepath.Join(s.TargetDir, "doc", underscored+".json")
}

func (s *LocalSource) Lookup(ctx context.Context, name cratename.Name, constraint semver.Constraint) (CrateInfo, bool, error) {
	if cratename.IsInternal(name) {
		return CrateInfo{}, false, nil
	}
	raw := string(name)
	if s.Context.IsWorkspacePackage(raw) {
		// Workspace package versions aren't tracked here (rebuilt on
		// demand regardless); treat any constraint as satisfiable by
		// whatever the workspace currently has checked out.
		return CrateInfo{Name: name, Provenance: ProvenanceWorkspace, DefaultCrate: name == cratename.Name(s.Context.DefaultCrate)}, true, nil
	}
	if versionStr, ok := s.Context.ResolveDependencyVersion(ctx, raw); ok {
		v, err := semver.Parse(versionStr)
		if err == nil && constraint.Matches(v) {
			return CrateInfo{Name: name, Version: v, Provenance: ProvenanceLocalDependency}, true, nil
		}
	}
	return CrateInfo{}, false, nil
}

func (s *LocalSource) Load(ctx context.Context, info CrateInfo) (*rustdoc.CrateData, error) {
	path := s.jsonPath(info.Name)
	triedRebuild := false

	for {
		if data, fresh := s.readIfFresh(path, info); fresh {
			crate, err := rustdoc.Normalize(data)
			if err != nil {
				return nil, fmt.Errorf("normalizing local crate %s: %w", info.Name, err)
			}
			return rustdoc.New(string(info.Name), info.Version.String(), crate), nil
		}
		if triedRebuild || !s.CanRebuild {
			return nil, rustdocerr.Wrap(rustdocerr.NotFound, "no fresh local docs for %s", info.Name)
		}
		triedRebuild = true
		if err := s.rebuildDocs(ctx, info.Name); err != nil {
			return nil, rustdocerr.Wrap(rustdocerr.Build, "cargo doc failed for %s: %v", info.Name, err)
		}
	}
}

// readIfFresh returns the JSON content and whether it's usable without
// a rebuild: for a workspace package, any source file under src/ newer
// than the doc mtime means stale; for a dependency, the cached
// crate_version must match the resolved dependency version.
func (s *LocalSource) readIfFresh(path string, info CrateInfo) ([]byte, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var probe struct {
		FormatVersion int     `json:"format_version"`
		CrateVersion  *string `json:"crate_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false
	}
	if probe.FormatVersion != rustdoc.CurrentFormatVersion {
		return nil, false
	}

	if info.Provenance == ProvenanceWorkspace {
		srcDir := filepath.Join(s.Context.ProjectRoot, "src")
		stale := false
		_ = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			entryInfo, err := d.Info()
			if err == nil && entryInfo.ModTime().After(fi.ModTime()) {
				stale = true
			}
			return nil
		})
		if stale {
			return nil, false
		}
		return data, true
	}

	if probe.CrateVersion == nil || *probe.CrateVersion != info.Version.String() {
		return nil, false
	}
	return data, true
}

func (s *LocalSource) rebuildDocs(ctx context.Context, name cratename.Name) error {
	cmd := exec.CommandContext(ctx, "cargo", "doc", "--no-deps", "--package", string(name))
	cmd.Dir = s.Context.ProjectRoot
	cmd.Env = append(os.Environ(), "RUSTDOCFLAGS=-Z unstable-options --output-format=json")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("cargo doc failed: %s", out)
	}
	return nil
}

func (s *LocalSource) ListKnown(ctx context.Context) ([]CrateInfo, error) {
	infos := make([]CrateInfo, 0, len(s.Context.WorkspacePackages)+len(s.Context.ResolvedDeps))
	for _, p := range s.Context.WorkspacePackages {
		name := cratename.Canonicalize(p, s.Context.DefaultCrate)
		infos = append(infos, CrateInfo{Name: name, Provenance: ProvenanceWorkspace, DefaultCrate: p == s.Context.DefaultCrate})
	}
	for name, version := range s.Context.ResolvedDeps {
		v, err := semver.Parse(version)
		if err != nil {
			continue
		}
		infos = append(infos, CrateInfo{Name: cratename.Canonicalize(name, ""), Version: v, Provenance: ProvenanceLocalDependency})
	}
	return infos, nil
}
