package storage

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// ErrInjected is returned by FaultFs for every failure it injects.
var ErrInjected = errors.New("injected storage failure")

// FaultFs wraps an afero.Fs and fails selected operations. It stands in for a
// flash filesystem that has run out of space or lost power mid-operation.
type FaultFs struct {
	afero.Fs

	// FailWritePrefix fails opening any path with this prefix for writing.
	FailWritePrefix string
	// FailRename fails every rename.
	FailRename bool
	// FailRead fails opening any path for reading.
	FailRead bool
}

// NewFaultFs wraps fs with no failures enabled.
func NewFaultFs(fs afero.Fs) *FaultFs {
	return &FaultFs{Fs: fs}
}

func (f *FaultFs) failWrite(name string) bool {
	return f.FailWritePrefix != "" && strings.HasPrefix(name, f.FailWritePrefix)
}

func (f *FaultFs) Create(name string) (afero.File, error) {
	if f.failWrite(name) {
		return nil, &os.PathError{Op: "create", Path: name, Err: ErrInjected}
	}
	return f.Fs.Create(name)
}

func (f *FaultFs) Open(name string) (afero.File, error) {
	if f.FailRead {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	return f.Fs.Open(name)
}

func (f *FaultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	writing := flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE) != 0
	if writing && f.failWrite(name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	if !writing && f.FailRead {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultFs) Rename(oldname, newname string) error {
	if f.FailRename {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: ErrInjected}
	}
	return f.Fs.Rename(oldname, newname)
}
