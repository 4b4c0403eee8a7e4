package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/rustnav/internal/cratename"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/rustdocerr"
	"github.com/jcdickinson/rustnav/internal/semver"
)

// StdSource serves the standard-library crates from the currently
// installed toolchain's sysroot. No version negotiation: the installed
// toolchain fixes the version (SPEC_FULL.md §4.1).
type StdSource struct {
	DocsPath    string
	RustcVersion string
}

// DiscoverStdSource probes the nightly toolchain via rustup the way
// original_source/sources.rs::StdSource::from_rustup does, returning
// ok=false if no std JSON docs are installed.
func DiscoverStdSource(ctx context.Context) (*StdSource, bool) {
	sysroot, err := runCapture(ctx, "rustup", "run", "nightly", "rustc", "--print", "sysroot")
	if err != nil {
		return nil, false
	}
	docsPath := filepath.Join(strings.TrimSpace(sysroot), "share", "doc", "rust", "json")

	verbose, err := runCapture(ctx, "rustup", "run", "nightly", "rustc", "--version", "--verbose")
	if err != nil {
		return nil, false
	}
	rustcVersion := parseReleaseLine(verbose)

	if _, err := os.Stat(docsPath); err != nil {
		return nil, false
	}
	return &StdSource{DocsPath: docsPath, RustcVersion: rustcVersion}, true
}

func parseReleaseLine(verbose string) string {
	sc := bufio.NewScanner(strings.NewReader(verbose))
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, "release: "); ok {
			return rest
		}
	}
	return ""
}

func runCapture(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *StdSource) Canonicalize(raw string) cratename.Name {
	return cratename.Canonicalize(raw, "")
}

func (s *StdSource) Lookup(ctx context.Context, name cratename.Name, constraint semver.Constraint) (CrateInfo, bool, error) {
	if !cratename.IsStd(name) {
		return CrateInfo{}, false, nil
	}
	// The installed toolchain fixes the version; any constraint not
	// satisfied by it means Std cannot help.
	v, err := stdVersion(s.RustcVersion)
	if err != nil {
		return CrateInfo{}, false, nil
	}
	if !constraint.Matches(v) {
		return CrateInfo{}, false, nil
	}
	return CrateInfo{Name: name, Version: v, Provenance: ProvenanceStdLib}, true, nil
}

func stdVersion(rustcVersion string) (semver.Version, error) {
	// rustc --version --verbose's "release:" line is itself a semver
	// triple (possibly with a "-nightly" suffix, stripped by semver.Parse).
	return semver.Parse(rustcVersion)
}

func (s *StdSource) Load(ctx context.Context, info CrateInfo) (*rustdoc.CrateData, error) {
	if !cratename.IsStd(info.Name) {
		return nil, rustdocerr.Wrap(rustdocerr.NotFound, "std source cannot load %s", info.Name)
	}
	path := filepath.Join(s.DocsPath, string(info.Name)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.IO, "reading std json for %s: %v", info.Name, err)
	}
	crate, err := rustdoc.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("normalizing std crate %s: %w", info.Name, err)
	}
	return rustdoc.New(string(info.Name), info.Version.String(), crate), nil
}

func (s *StdSource) ListKnown(ctx context.Context) ([]CrateInfo, error) {
	v, err := stdVersion(s.RustcVersion)
	if err != nil {
		return nil, nil
	}
	var infos []CrateInfo
	for _, n := range cratename.Std {
		path := filepath.Join(s.DocsPath, string(n)+".json")
		if _, err := os.Stat(path); err == nil {
			infos = append(infos, CrateInfo{Name: n, Version: v, Provenance: ProvenanceStdLib})
		}
	}
	return infos, nil
}
