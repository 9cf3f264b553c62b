package filehost

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/snowhost"
	"github.com/spf13/afero"
)

// handleTable maps disk handles to open files. A set bit in the allocation
// bitmap means the handle is in use.
type handleTable struct {
	inUse bitmap.Bitmap
	files []afero.File
}

func newHandleTable(size int) handleTable {
	return handleTable{
		inUse: bitmap.New(size),
		files: make([]afero.File, size),
	}
}

// allocate stores `file` in the first free slot and returns its handle.
func (table *handleTable) allocate(file afero.File) (int32, error) {
	for i := range table.files {
		if !table.inUse.Get(i) {
			table.inUse.Set(i, true)
			table.files[i] = file
			return int32(i), nil
		}
	}
	return -1, snowhost.ErrIOFailed.WithMessage(
		fmt.Sprintf("all %d disk handles are in use", len(table.files)))
}

// lookup returns the file for `handle`, or nil if the handle isn't open.
func (table *handleTable) lookup(handle int32) afero.File {
	if handle < 0 || int(handle) >= len(table.files) || !table.inUse.Get(int(handle)) {
		return nil
	}
	return table.files[handle]
}

// free releases `handle` and returns the file that was stored there.
func (table *handleTable) free(handle int32) (afero.File, error) {
	file := table.lookup(handle)
	if file == nil {
		return nil, snowhost.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("disk handle %d is not open", handle))
	}

	table.inUse.Set(int(handle), false)
	table.files[handle] = nil
	return file, nil
}

func (table *handleTable) openCount() int {
	count := 0
	for i := range table.files {
		if table.inUse.Get(i) {
			count++
		}
	}
	return count
}
