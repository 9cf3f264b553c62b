//go:build wasm

package host

import (
	"unsafe"
)

//go:wasmimport env js_disk_open
func jsDiskOpen(path unsafe.Pointer) int32

//go:wasmimport env js_disk_close
func jsDiskClose(diskID int32)

//go:wasmimport env js_disk_size
func jsDiskSize(diskID int32) float64

//go:wasmimport env js_disk_read
func jsDiskRead(diskID int32, buf unsafe.Pointer, offset, length float64) float64

//go:wasmimport env js_disk_write
func jsDiskWrite(diskID int32, buf unsafe.Pointer, offset, length float64) float64

//go:wasmimport env js_did_open_video
func jsDidOpenVideo(width, height uint32)

//go:wasmimport env js_blit
func jsBlit(buf unsafe.Pointer, size uint32)

//go:wasmimport env js_acquire_input_lock
func jsAcquireInputLock() int32

//go:wasmimport env js_release_input_lock
func jsReleaseInputLock()

//go:wasmimport env js_has_mouse_position
func jsHasMousePosition() int32

//go:wasmimport env js_get_mouse_x_position
func jsGetMouseXPosition() int32

//go:wasmimport env js_get_mouse_y_position
func jsGetMouseYPosition() int32

//go:wasmimport env js_get_mouse_delta_x
func jsGetMouseDeltaX() int32

//go:wasmimport env js_get_mouse_delta_y
func jsGetMouseDeltaY() int32

//go:wasmimport env js_get_mouse_button_state
func jsGetMouseButtonState() int32

//go:wasmimport env js_enqueue_audio
func jsEnqueueAudio(buf unsafe.Pointer, size uint32)

// Imports is the Host backed by the runtime's import table.
type Imports struct{}

var _ Host = Imports{}

// bufferPointer returns a pointer to the first byte of `buf`, or nil if it's
// empty. Hosts must not dereference the pointer for zero-length transfers.
func bufferPointer(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(buf))
}

func (Imports) DiskOpen(cPath []byte) int32 {
	return jsDiskOpen(bufferPointer(cPath))
}

func (Imports) DiskClose(id int32) {
	jsDiskClose(id)
}

func (Imports) DiskSize(id int32) float64 {
	return jsDiskSize(id)
}

func (Imports) DiskRead(id int32, buf []byte, offset, length float64) float64 {
	return jsDiskRead(id, bufferPointer(buf), offset, length)
}

func (Imports) DiskWrite(id int32, buf []byte, offset, length float64) float64 {
	return jsDiskWrite(id, bufferPointer(buf), offset, length)
}

func (Imports) DidOpenVideo(width, height uint32) {
	jsDidOpenVideo(width, height)
}

func (Imports) Blit(buf []byte) {
	jsBlit(bufferPointer(buf), uint32(len(buf)))
}

func (Imports) AcquireInputLock() int32 { return jsAcquireInputLock() }
func (Imports) ReleaseInputLock()       { jsReleaseInputLock() }
func (Imports) HasMousePosition() int32 { return jsHasMousePosition() }
func (Imports) MouseXPosition() int32   { return jsGetMouseXPosition() }
func (Imports) MouseYPosition() int32   { return jsGetMouseYPosition() }
func (Imports) MouseDeltaX() int32      { return jsGetMouseDeltaX() }
func (Imports) MouseDeltaY() int32      { return jsGetMouseDeltaY() }
func (Imports) MouseButtonState() int32 { return jsGetMouseButtonState() }

func (Imports) EnqueueAudio(buf []byte) {
	jsEnqueueAudio(bufferPointer(buf), uint32(len(buf)))
}
