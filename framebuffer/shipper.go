// Package framebuffer forwards frames rendered by the emulator core to the
// host's display.
package framebuffer

import (
	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/host"
)

// Shipper drains the core's frame channel and uploads each frame to the host,
// announcing resolution changes before the first frame at the new size.
type Shipper struct {
	frames        <-chan snowhost.DisplayBuffer
	video         host.VideoHost
	currentWidth  uint16
	currentHeight uint16
}

// NewShipper creates a shipper reading from `frames`. No resolution has been
// announced yet, so the first frame always triggers DidOpenVideo.
func NewShipper(frames <-chan snowhost.DisplayBuffer, video host.VideoHost) *Shipper {
	return &Shipper{
		frames: frames,
		video:  video,
	}
}

// Tick ships every frame that's ready without blocking. Frames that arrived
// since the last tick are all sent, in order.
func (s *Shipper) Tick() {
	for {
		select {
		case frame, ok := <-s.frames:
			if !ok {
				return
			}
			s.sendFrame(frame)
		default:
			return
		}
	}
}

// Size returns the last resolution announced to the host, or (0, 0) if no
// frame has been shipped yet.
func (s *Shipper) Size() (width, height uint16) {
	return s.currentWidth, s.currentHeight
}

func (s *Shipper) sendFrame(frame snowhost.DisplayBuffer) {
	if frame.Width != s.currentWidth || frame.Height != s.currentHeight {
		s.video.DidOpenVideo(uint32(frame.Width), uint32(frame.Height))
		s.currentWidth = frame.Width
		s.currentHeight = frame.Height
	}

	// The host copies the pixels before Blit returns; we don't keep them.
	if len(frame.Pixels) > 0 {
		s.video.Blit(frame.Pixels)
	}
}
