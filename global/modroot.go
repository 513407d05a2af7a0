package global

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// FindModulePath walks up from startDir looking for a go.mod, reads it
// through an afs.Service (so the same logic runs against a real disk, an
// in-memory filesystem in tests, or any afs-backed store), and returns its
// declared module path. This backs spec §4.4 (v): resolving module-import
// global entries relative to the host program's own module.
//
// Grounded on the teacher pack's project-root detection
// (inspector/repository/detector.go), narrowed to the single Go-module
// case this resolver needs.
func FindModulePath(ctx context.Context, fs afs.Service, startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "go.mod")
		content, err := fs.DownloadWithURL(ctx, candidate)
		if err == nil && len(content) > 0 {
			mod, parseErr := modfile.Parse(candidate, content, nil)
			if parseErr != nil {
				return "", fmt.Errorf("global: parse %s: %w", candidate, parseErr)
			}
			return mod.Module.Mod.Path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("global: no go.mod found above %s", startDir)
		}
		dir = parent
	}
}

// NewTableForModule builds an empty Table and immediately resolves and
// records the host module's path, so EntryModuleImport entries can be
// rendered relative to it. Adapters still call Register/RegisterMember/etc.
// to populate the table's intrinsic rows.
func NewTableForModule(ctx context.Context, fs afs.Service, startDir string) (*Table, error) {
	t := NewTable()
	path, err := FindModulePath(ctx, fs, startDir)
	if err != nil {
		return t, err
	}
	t.SetModulePath(path)
	return t, nil
}
