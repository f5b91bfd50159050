package format

type (
	// Category is the classification of a record used by the table index.
	Category uint8
	// CompressionType identifies the codec of the compressed table body.
	CompressionType uint8
)

// Categories in layout order. The index partitions its flat offset array
// in exactly this order, so the numbering is part of the format.
const (
	CategoryTableHeader Category = iota
	CategoryTempSensor
	CategoryHiddenTempSensor
	CategoryFanPWM
	CategoryFanDevice
	CategoryPowerSupply
	CategoryRedundancyRule
	CategoryIndicator
	CategoryPowerMeter
	CategoryProcessor
	CategoryStatus
	CategorySatelliteController
	CategoryFRU
	CategoryAssociation
	CategoryI2CEngine
	CategoryDIMMMapping
	CategoryAltConfig
	CategoryValidation
	CategorySensorGroup
	CategoryLookupTable
	CategoryThrottle
	CategorySystemDevice
	CategoryPECISegment
	CategoryPatch

	NumCategories = int(CategoryPatch) + 1

	// CategoryNone marks a record that belongs to no category (end of
	// table or an unknown type code).
	CategoryNone Category = 0xFF
)

const (
	CompressionDeflate CompressionType = 0x0 // CompressionDeflate is the default body codec.
	CompressionNone    CompressionType = 0x1 // CompressionNone stores the body uncompressed.
	CompressionZstd    CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2      CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4     CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

var categoryNames = [NumCategories]string{
	"TableHeader",
	"TempSensor",
	"HiddenTempSensor",
	"FanPWM",
	"FanDevice",
	"PowerSupply",
	"RedundancyRule",
	"Indicator",
	"PowerMeter",
	"Processor",
	"Status",
	"SatelliteController",
	"FRU",
	"Association",
	"I2CEngine",
	"DIMMMapping",
	"AltConfig",
	"Validation",
	"SensorGroup",
	"LookupTable",
	"Throttle",
	"SystemDevice",
	"PECISegment",
	"Patch",
}

// Valid reports whether c is one of the indexed categories.
func (c Category) Valid() bool {
	return int(c) < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return "Unknown"
	}

	return categoryNames[c]
}

// ParseCategory returns the category with the given name as printed by String.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}

	return CategoryNone, false
}

// Categories returns all indexed categories in layout order.
func Categories() []Category {
	cats := make([]Category, NumCategories)
	for i := range cats {
		cats[i] = Category(i)
	}

	return cats
}

func (c CompressionType) String() string {
	switch c {
	case CompressionDeflate:
		return "Deflate"
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
