package floppy

import (
	"fmt"
)

// Format is the container format a floppy image was stored in.
type Format int

const (
	FormatUnknown Format = iota
	// FormatRaw is a headerless dump of the sectors in logical order.
	FormatRaw
	// FormatDiskCopy42 is Apple's Disk Copy 4.2 image.
	FormatDiskCopy42
	// FormatMOOF is the Applesauce Macintosh bitstream format.
	FormatMOOF
	// FormatWOZ is the Applesauce Apple II bitstream format.
	FormatWOZ
	// FormatA2R is the Applesauce flux capture format.
	FormatA2R
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatDiskCopy42:
		return "Disk Copy 4.2"
	case FormatMOOF:
		return "MOOF"
	case FormatWOZ:
		return "WOZ"
	case FormatA2R:
		return "A2R"
	default:
		return "unknown"
	}
}

// Kind is the physical disk type an image was made from.
type Kind int

const (
	KindUnknown Kind = iota
	// KindGCR400K is a single-sided 400K GCR disk.
	KindGCR400K
	// KindGCR800K is a double-sided 800K GCR disk.
	KindGCR800K
	// KindMFM720K is a double-density 720K MFM disk.
	KindMFM720K
	// KindMFM1440K is a high-density 1.44M MFM disk.
	KindMFM1440K
)

// Sizes of the sector data of each kind of disk, in bytes.
const (
	sizeGCR400K  = 409_600
	sizeGCR800K  = 819_200
	sizeMFM720K  = 737_280
	sizeMFM1440K = 1_474_560
)

var kindsBySize = map[int]Kind{
	sizeGCR400K:  KindGCR400K,
	sizeGCR800K:  KindGCR800K,
	sizeMFM720K:  KindMFM720K,
	sizeMFM1440K: KindMFM1440K,
}

func (k Kind) String() string {
	switch k {
	case KindGCR400K:
		return "400K GCR"
	case KindGCR800K:
		return "800K GCR"
	case KindMFM720K:
		return "720K MFM"
	case KindMFM1440K:
		return "1.44M MFM"
	default:
		return "unknown"
	}
}

// Image is a floppy image identified by [Autodetect]. Sector images carry
// their decoded sector data; bitstream and flux formats carry the whole file
// for the core's decoders.
type Image struct {
	format Format
	kind   Kind
	title  string
	data   []byte
	tags   []byte
}

// Format returns the container format the image was read from.
func (img *Image) Format() Format {
	return img.format
}

// Kind returns the physical disk type, if the container says.
func (img *Image) Kind() Kind {
	return img.kind
}

// Title returns the disk's name.
func (img *Image) Title() string {
	return img.title
}

// Data returns the sector data for sector formats, or the complete file for
// bitstream and flux formats.
func (img *Image) Data() []byte {
	return img.data
}

// Tags returns the per-sector tag bytes of a Disk Copy image, if any.
func (img *Image) Tags() []byte {
	return img.tags
}

func (img *Image) String() string {
	return fmt.Sprintf("%s (%s, %s)", img.title, img.format, img.kind)
}
