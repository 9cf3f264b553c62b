// Package models holds the fixed tables the bridge uses to turn command-line
// identifiers into emulator settings: Gestalt IDs to Macintosh models, monitor
// keywords to monitors, and extra-ROM file names to ROM slots.
package models

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

////////////////////////////////////////////////////////////////////////////////
// Models

// Model is an emulated Macintosh model.
type Model int

const (
	ModelUnknown Model = iota
	Early128K
	Early512K
	Early512Ke
	Plus
	SE
	MacII
	MacIIx
	MacIIcx
	SE30
	Classic
)

var modelSlugs = map[string]Model{
	"Early128K":  Early128K,
	"Early512K":  Early512K,
	"Early512Ke": Early512Ke,
	"Plus":       Plus,
	"SE":         SE,
	"MacII":      MacII,
	"MacIIx":     MacIIx,
	"MacIIcx":    MacIIcx,
	"SE30":       SE30,
	"Classic":    Classic,
}

// ramSizeList is a space-separated list of RAM sizes in bytes.
type ramSizeList []int

func (l *ramSizeList) UnmarshalCSV(value string) error {
	fields := strings.Fields(value)
	sizes := make(ramSizeList, 0, len(fields))
	for _, field := range fields {
		size, err := strconv.Atoi(field)
		if err != nil {
			return fmt.Errorf("invalid RAM size %q: %w", field, err)
		}
		sizes = append(sizes, size)
	}
	*l = sizes
	return nil
}

// ModelInfo describes one row of the Gestalt table.
type ModelInfo struct {
	GestaltID  uint32      `csv:"gestalt_id"`
	Slug       string      `csv:"slug"`
	Name       string      `csv:"name"`
	RAMSizes   ramSizeList `csv:"ram_sizes"`
	RAMDefault int         `csv:"ram_default"`
	model      Model       `csv:"-"`
}

//go:embed models.csv
var modelsRawCSV string

var modelsByGestalt map[uint32]*ModelInfo
var modelInfo map[Model]*ModelInfo

// ModelFromGestalt maps a classic Mac Gestalt machine ID to a model.
func ModelFromGestalt(gestaltID uint32) (Model, error) {
	info, ok := modelsByGestalt[gestaltID]
	if !ok {
		return ModelUnknown,
			fmt.Errorf("Unknown gestalt ID %d (no matching Snow model)", gestaltID)
	}
	return info.model, nil
}

// GestaltIDs returns every Gestalt ID in the table in ascending order.
func GestaltIDs() []uint32 {
	ids := make([]uint32, 0, len(modelsByGestalt))
	for id := range modelsByGestalt {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m Model) info() *ModelInfo {
	return modelInfo[m]
}

// Slug returns the model's stable identifier, e.g. "SE30".
func (m Model) Slug() string {
	if info := m.info(); info != nil {
		return info.Slug
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// String returns the model's marketing name.
func (m Model) String() string {
	if info := m.info(); info != nil {
		return info.Name
	}
	return m.Slug()
}

// GestaltID returns the Gestalt machine ID of the model, or 0 if the model is
// unknown.
func (m Model) GestaltID() uint32 {
	if info := m.info(); info != nil {
		return info.GestaltID
	}
	return 0
}

// RAMSizeOptions returns the RAM sizes, in bytes, the model can be configured
// with. The caller may modify the returned slice.
func (m Model) RAMSizeOptions() []int {
	if info := m.info(); info != nil {
		return slices.Clone(info.RAMSizes)
	}
	return nil
}

// RAMSizeDefault returns the model's default RAM size in bytes.
func (m Model) RAMSizeDefault() int {
	if info := m.info(); info != nil {
		return info.RAMDefault
	}
	return 0
}

// ValidateRAMSize returns an error if `size` is not one of the model's RAM
// options.
func (m Model) ValidateRAMSize(size int) error {
	if slices.Contains(m.RAMSizeOptions(), size) {
		return nil
	}
	return fmt.Errorf(
		"Unsupported RAM size %d for %s (default %d)",
		size,
		m,
		m.RAMSizeDefault(),
	)
}

func init() {
	csvReader := csv.NewReader(strings.NewReader(modelsRawCSV))
	csvReader.Comma = '|'

	var rows []*ModelInfo
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		panic(fmt.Errorf("failed to decode model table: %w", err))
	}

	modelsByGestalt = make(map[uint32]*ModelInfo, len(rows))
	modelInfo = make(map[Model]*ModelInfo, len(rows))

	for i, row := range rows {
		model, ok := modelSlugs[row.Slug]
		if !ok {
			panic(fmt.Errorf("unknown model slug %q on row %d", row.Slug, i+1))
		}
		if _, exists := modelsByGestalt[row.GestaltID]; exists {
			panic(fmt.Errorf(
				"duplicate definition for gestalt ID %d found on row %d",
				row.GestaltID,
				i+1))
		}
		if !slices.Contains(row.RAMSizes, row.RAMDefault) {
			panic(fmt.Errorf(
				"default RAM size %d of %s is not one of its options", row.RAMDefault, row.Slug))
		}
		row.model = model
		modelsByGestalt[row.GestaltID] = row
		modelInfo[model] = row
	}
}

////////////////////////////////////////////////////////////////////////////////
// Monitors

// Monitor is an external monitor for models with NuBus video.
type Monitor int

const (
	RGB12 Monitor = iota
	HiRes14
	RGB21
	PortraitBW
)

var monitorNames = []string{"RGB12", "HiRes14", "RGB21", "PortraitBW"}

// ParseMonitor converts a command-line monitor keyword into a Monitor.
func ParseMonitor(id string) (Monitor, error) {
	index := slices.Index(monitorNames, id)
	if index < 0 {
		return 0, fmt.Errorf("Unknown monitor ID '%s'", id)
	}
	return Monitor(index), nil
}

func (m Monitor) String() string {
	if int(m) >= 0 && int(m) < len(monitorNames) {
		return monitorNames[m]
	}
	return fmt.Sprintf("Monitor(%d)", int(m))
}
