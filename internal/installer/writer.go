package installer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/stencil-ui/stencil/internal/registry"
	"github.com/stencil-ui/stencil/internal/transform"
)

// ErrUserCancelled is returned when the user declines the conflict
// overwrite prompt. It aborts the current item's whole batch before any
// write and is distinguished from other errors so callers can exit cleanly.
var ErrUserCancelled = errors.New("user cancelled file overwrite")

// PendingFile is the in-memory staging record for one file about to be
// written. Created during the collect phase, consumed once the batch is
// written or aborted, never persisted.
type PendingFile struct {
	OriginalPath     string // virtual path from the registry item
	TargetPath       string // resolved absolute on-disk path
	Content          string // raw declared content
	ProcessedContent string // content after import-path rewriting
	Exists           bool   // a file is already at TargetPath
	Identical        bool   // existing content equals ProcessedContent after trim
}

// Conflict reports whether writing this file would clobber differing
// content. Files that exist with identical content are never conflicts.
func (p *PendingFile) Conflict() bool { return p.Exists && !p.Identical }

// collect stages every file of the item: resolve the target path, rewrite
// content, probe the filesystem, and trim-compare against any existing
// file. Files with no content are logged and skipped entirely.
func (p *Processor) collect(item *registry.RegistryItem, opts Options) ([]*PendingFile, error) {
	var pending []*PendingFile

	for _, file := range item.Files {
		if file.Content == nil {
			fmt.Fprintf(p.out, "  - %s has no content, skipping\n", file.Path)
			continue
		}

		target := transform.ResolveTarget(file.Path, p.cfg, opts.PreserveDirs)
		processed := p.rewriter.Rewrite(*file.Content)

		pf := &PendingFile{
			OriginalPath:     file.Path,
			TargetPath:       target,
			Content:          *file.Content,
			ProcessedContent: processed,
		}

		exists, err := afero.Exists(p.fs, target)
		if err != nil {
			return nil, fmt.Errorf("probing %s: %w", target, err)
		}
		if exists {
			existing, err := afero.ReadFile(p.fs, target)
			if err != nil {
				return nil, fmt.Errorf("reading existing file %s: %w", target, err)
			}
			pf.Exists = true
			pf.Identical = strings.TrimSpace(string(existing)) == strings.TrimSpace(processed)
		}

		pending = append(pending, pf)
	}

	return pending, nil
}

// confirmConflicts lists every conflicting path and asks a single yes/no
// question for the whole batch. Declining returns ErrUserCancelled with
// zero files written.
func (p *Processor) confirmConflicts(pending []*PendingFile) error {
	var conflicts []*PendingFile
	for _, pf := range pending {
		if pf.Conflict() {
			conflicts = append(conflicts, pf)
		}
	}
	if len(conflicts) == 0 {
		return nil
	}

	fmt.Fprintln(p.out, "The following files already exist and differ:")
	for _, pf := range conflicts {
		fmt.Fprintf(p.out, "  - %s\n", p.relPath(pf.TargetPath))
	}

	ok, err := p.confirmer.Confirm("Overwrite these files?")
	if err != nil {
		return fmt.Errorf("confirming overwrite: %w", err)
	}
	if !ok {
		return ErrUserCancelled
	}
	return nil
}

// writeAll writes every pending file, creating target directories as
// needed. Identical files are skipped with their own status line. An I/O
// error on one file does not stop the rest of the batch; the first error
// is returned after all writes were attempted.
func (p *Processor) writeAll(pending []*PendingFile) ([]ProcessedFile, error) {
	var written []ProcessedFile
	var firstErr error

	for _, pf := range pending {
		p.seen[pf.OriginalPath] = true
		rel := p.relPath(pf.TargetPath)

		if pf.Exists && pf.Identical {
			fmt.Fprintf(p.out, "  - %s unchanged, skipped\n", rel)
			continue
		}

		if err := p.fs.MkdirAll(filepath.Dir(pf.TargetPath), 0755); err != nil {
			fmt.Fprintf(p.out, "  ✗ %s: %v\n", rel, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("creating directory for %s: %w", rel, err)
			}
			continue
		}

		if err := afero.WriteFile(p.fs, pf.TargetPath, []byte(pf.ProcessedContent), 0644); err != nil {
			fmt.Fprintf(p.out, "  ✗ %s: %v\n", rel, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("writing %s: %w", rel, err)
			}
			continue
		}

		if pf.Exists {
			fmt.Fprintf(p.out, "  ✓ updated %s\n", rel)
		} else {
			fmt.Fprintf(p.out, "  ✓ created %s\n", rel)
		}

		written = append(written, ProcessedFile{
			OriginalPath:     pf.OriginalPath,
			ProcessedPath:    pf.TargetPath,
			Content:          pf.Content,
			ProcessedContent: pf.ProcessedContent,
		})
	}

	return written, firstErr
}

// relPath renders a target path relative to the project root for display.
func (p *Processor) relPath(target string) string {
	rel, err := filepath.Rel(p.cfg.RootDir, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
