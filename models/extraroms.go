package models

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
)

// ExtraROMKind identifies the slot an auxiliary ROM image is loaded into.
type ExtraROMKind int

const (
	// MDC12 is the Macintosh Display Card 8•24 declaration ROM.
	MDC12 ExtraROMKind = iota
	// SE30Video is the SE/30 built-in video ROM.
	SE30Video
	// ExtensionROM is a generic ROM extension.
	ExtensionROM
)

var extraROMSlots = map[string]ExtraROMKind{
	"MDC12":        MDC12,
	"SE30Video":    SE30Video,
	"ExtensionROM": ExtensionROM,
}

// ExtraROMInfo describes a recognized auxiliary ROM file.
type ExtraROMInfo struct {
	Filename    string `csv:"filename"`
	Slot        string `csv:"slot"`
	Description string `csv:"description"`
	kind        ExtraROMKind
}

//go:embed extraroms.csv
var extraROMsRawCSV string
var extraROMsByFilename map[string]*ExtraROMInfo

// ExtraROMKindFromFilename picks the ROM slot from the file's base name.
func ExtraROMKindFromFilename(path string) (ExtraROMKind, error) {
	info, ok := extraROMsByFilename[filepath.Base(path)]
	if !ok {
		return 0, fmt.Errorf("Unknown extra ROM '%s'", path)
	}
	return info.kind, nil
}

// ExtraROMFilenames returns the file names of every recognized extra ROM.
func ExtraROMFilenames() []string {
	names := make([]string, 0, len(extraROMsByFilename))
	for name := range extraROMsByFilename {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (k ExtraROMKind) String() string {
	switch k {
	case MDC12:
		return "MDC12"
	case SE30Video:
		return "SE30Video"
	case ExtensionROM:
		return "ExtensionROM"
	default:
		return fmt.Sprintf("ExtraROMKind(%d)", int(k))
	}
}

func init() {
	csvReader := csv.NewReader(strings.NewReader(extraROMsRawCSV))
	csvReader.Comma = '|'

	decoder, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		panic(fmt.Errorf("failed to create CSV decoder: %w", err))
	}

	extraROMsByFilename = make(map[string]*ExtraROMInfo)

	for {
		row := &ExtraROMInfo{}
		if err = decoder.Decode(row); err == io.EOF {
			break
		} else if err != nil {
			panic(
				fmt.Errorf("failed to decode row %d: %w", len(extraROMsByFilename)+1, err))
		}

		kind, ok := extraROMSlots[row.Slot]
		if !ok {
			panic(fmt.Errorf("unknown ROM slot %q for %q", row.Slot, row.Filename))
		}
		if _, exists := extraROMsByFilename[row.Filename]; exists {
			panic(fmt.Errorf(
				"duplicate definition for extra ROM %q found on row %d",
				row.Filename,
				len(extraROMsByFilename)+1))
		}
		row.kind = kind
		extraROMsByFilename[row.Filename] = row
	}
}
