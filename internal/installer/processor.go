package installer

import (
	"io"
	"sort"

	"github.com/spf13/afero"

	"github.com/stencil-ui/stencil/internal/project"
	"github.com/stencil-ui/stencil/internal/registry"
	"github.com/stencil-ui/stencil/internal/transform"
)

// Options controls a single ProcessItem run.
type Options struct {
	// SkipConflicts overwrites conflicting files without prompting.
	SkipConflicts bool
	// InstallDeps shells out to npm for the item's package dependencies.
	InstallDeps bool
	// PreserveDirs keeps the directory structure of virtual paths that do
	// not match any alias prefix instead of flattening to the base name.
	PreserveDirs bool
}

// ProcessedFile records one file written during an item installation.
type ProcessedFile struct {
	OriginalPath     string
	ProcessedPath    string
	Content          string
	ProcessedContent string
}

// Result is the outcome of installing one registry item.
type Result struct {
	Files  []ProcessedFile
	NPM    []string
	NPMDev []string
}

// Processor orchestrates the installation of registry items: path
// resolution, content rewriting, conflict-aware writing, npm dependency
// installation, and CSS variable appending. The filesystem and the
// confirmation channel are injected capabilities.
type Processor struct {
	cfg       *project.Config
	fs        afero.Fs
	confirmer Confirmer
	rewriter  *transform.Rewriter
	out       io.Writer

	// seen tracks every virtual path processed by this instance, across
	// items. Append-only for the life of the processor.
	seen map[string]bool
}

// NewProcessor returns a Processor for the given project configuration.
// A nil fs uses the real filesystem; a nil confirmer auto-approves; a nil
// out discards status output.
func NewProcessor(cfg *project.Config, fs afero.Fs, confirmer Confirmer, out io.Writer) *Processor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if confirmer == nil {
		confirmer = AutoApprove{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Processor{
		cfg:       cfg,
		fs:        fs,
		confirmer: confirmer,
		rewriter:  transform.NewRewriter(cfg),
		out:       out,
		seen:      make(map[string]bool),
	}
}

// ProcessItem installs one registry item: collect, conflict check, write,
// then optional npm installation. A declined conflict prompt returns
// ErrUserCancelled with no files written. A failed npm install returns an
// *InstallError; files already written stay on disk.
func (p *Processor) ProcessItem(item *registry.RegistryItem, opts Options) (*Result, error) {
	pending, err := p.collect(item, opts)
	if err != nil {
		return nil, err
	}

	if !opts.SkipConflicts {
		if err := p.confirmConflicts(pending); err != nil {
			return nil, err
		}
	}

	written, writeErr := p.writeAll(pending)

	result := &Result{
		Files:  written,
		NPM:    append([]string(nil), item.Dependencies...),
		NPMDev: append([]string(nil), item.DevDependencies...),
	}
	if writeErr != nil {
		return result, writeErr
	}

	if opts.InstallDeps {
		if err := p.installPackages(result.NPM, result.NPMDev); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ProcessedPaths returns the virtual paths seen so far, sorted.
func (p *Processor) ProcessedPaths() []string {
	paths := make([]string, 0, len(p.seen))
	for path := range p.seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ClearProcessedPaths resets the seen-path set.
func (p *Processor) ClearProcessedPaths() {
	p.seen = make(map[string]bool)
}
