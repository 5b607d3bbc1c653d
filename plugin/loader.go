package plugin

import (
	"fmt"
	goplugin "plugin"

	"github.com/Skryldev/imageio/core"
	apperrors "github.com/Skryldev/imageio/errors"
)

// Well-known symbols every loadable module exports.  The version marker is
// mandatory; the entry point is optional (a module without it registers
// nothing and is discarded as useless).
const (
	// SymbolVersion is an int variable that must equal
	// core.InterfaceVersion.
	SymbolVersion = "ImageIOVersion"
	// SymbolDescriptor is a func() core.Descriptor returning the module's
	// capability record.
	SymbolDescriptor = "ImageIOPlugin"
)

// SharedLibraryLoader opens modules with the runtime's shared-object
// support.  Loaded objects cannot be unmapped by the Go runtime, so Close on
// a returned module only drops the wrapper; the registry treats closed
// modules as discarded either way.
type SharedLibraryLoader struct{}

// NewSharedLibraryLoader returns a loader for real shared-library modules.
func NewSharedLibraryLoader() *SharedLibraryLoader {
	return &SharedLibraryLoader{}
}

// Open loads the module at path, verifies its interface-version marker, and
// resolves its capability descriptor.  A file that is not a loadable module
// is an expected condition and comes back as a plain load error for the
// caller to skip.
func (l *SharedLibraryLoader) Open(path string) (*core.LoadResult, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryLoad, "plugin.open", err)
	}

	sym, err := p.Lookup(SymbolVersion)
	if err != nil {
		return nil, apperrors.New(apperrors.CategoryLoad, "plugin.version",
			fmt.Errorf("%w: %s has no %s symbol", apperrors.ErrVersionMismatch, path, SymbolVersion))
	}
	version, ok := sym.(*int)
	if !ok || *version != core.InterfaceVersion {
		return nil, apperrors.New(apperrors.CategoryLoad, "plugin.version",
			fmt.Errorf("%w: %s", apperrors.ErrVersionMismatch, path))
	}

	var desc core.Descriptor
	if dsym, derr := p.Lookup(SymbolDescriptor); derr == nil {
		if describe, ok := dsym.(func() core.Descriptor); ok {
			desc = describe()
		}
	}

	return &core.LoadResult{
		Module:     &sharedModule{path: path, p: p},
		Descriptor: desc,
	}, nil
}

type sharedModule struct {
	path string
	p    *goplugin.Plugin
}

func (m *sharedModule) Path() string { return m.path }

// Close releases the wrapper.  The underlying object stays mapped for the
// life of the process; that is a property of the runtime, not a leak.
func (m *sharedModule) Close() error {
	m.p = nil
	return nil
}

var _ core.ModuleLoader = (*SharedLibraryLoader)(nil)
var _ core.Module = (*sharedModule)(nil)
