package table

import "github.com/HewlettPackard/openbmc-chif-svc-sub000/format"

const (
	// MaxRecords is the capacity of the flat offset array.
	MaxRecords = 2000
	// MaxTempSensors caps visible and hidden temperature sensors combined.
	MaxTempSensors = 256
	// MaxHealthDevices caps the records monitored by the health subsystem.
	MaxHealthDevices = 400

	// NoOffset marks a cached record offset that is absent.
	NoOffset = ^uint32(0)
)

// Capacities holds the hard per-category record limit, in layout order.
var Capacities = [format.NumCategories]int{
	format.CategoryTableHeader:         2,
	format.CategoryTempSensor:          256,
	format.CategoryHiddenTempSensor:    256,
	format.CategoryFanPWM:              24,
	format.CategoryFanDevice:           32,
	format.CategoryPowerSupply:         16,
	format.CategoryRedundancyRule:      8,
	format.CategoryIndicator:           64,
	format.CategoryPowerMeter:          32,
	format.CategoryProcessor:           8,
	format.CategoryStatus:              128,
	format.CategorySatelliteController: 16,
	format.CategoryFRU:                 64,
	format.CategoryAssociation:         256,
	format.CategoryI2CEngine:           10,
	format.CategoryDIMMMapping:         64,
	format.CategoryAltConfig:           32,
	format.CategoryValidation:          32,
	format.CategorySensorGroup:         64,
	format.CategoryLookupTable:         32,
	format.CategoryThrottle:            32,
	format.CategorySystemDevice:        128,
	format.CategoryPECISegment:         16,
	format.CategoryPatch:               64,
}

// healthCategories are the categories counted against MaxHealthDevices.
var healthCategories = []format.Category{
	format.CategoryIndicator,
	format.CategoryTempSensor,
	format.CategoryHiddenTempSensor,
	format.CategoryFanDevice,
	format.CategoryPowerSupply,
	format.CategoryPowerMeter,
	format.CategoryStatus,
}

// CategoryIndex is the run of one category inside Metadata.Flat.
type CategoryIndex struct {
	First int
	Count int
}

// Metadata is the index of a loaded table.
//
// Flat holds absolute arena offsets partitioned by category in layout
// order: category c occupies Flat[Categories[c].First:][:Categories[c].Count].
// A count lowered by truncation never moves the First of any category.
type Metadata struct {
	Categories [format.NumCategories]CategoryIndex
	Flat       [MaxRecords]uint32

	// Dropped counts records excluded from each category by its cap.
	Dropped [format.NumCategories]int

	RecordCount int    // records placed in Flat
	BuildCount  uint64 // generation number, set by the engine

	DefaultFanPWMOffset uint32 // trailing fan PWM record, excluded from its category
	AltConfigOffset     uint32 // first alternate configuration record
	EndOffset           uint32 // end-of-table record
}

// Index returns the run of category c.
func (m *Metadata) Index(c format.Category) CategoryIndex {
	if !c.Valid() {
		return CategoryIndex{}
	}

	return m.Categories[c]
}

// Count returns the number of indexed records of category c.
func (m *Metadata) Count(c format.Category) int {
	return m.Index(c).Count
}

// Offsets returns the arena offsets of the indexed records of category c.
func (m *Metadata) Offsets(c format.Category) []uint32 {
	idx := m.Index(c)

	return m.Flat[idx.First : idx.First+idx.Count]
}

// DataRecords returns the indexed record total over every category except
// the table header.
func (m *Metadata) DataRecords() int {
	total := 0
	for c := format.CategoryTempSensor; int(c) < format.NumCategories; c++ {
		total += m.Categories[c].Count
	}

	return total
}

// HealthDevices returns the indexed record total over the health categories.
func (m *Metadata) HealthDevices() int {
	total := 0
	for _, c := range healthCategories {
		total += m.Categories[c].Count
	}

	return total
}
