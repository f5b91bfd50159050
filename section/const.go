package section

import "github.com/HewlettPackard/openbmc-chif-svc-sub000/format"

// Record type codes as compiled into the table.
const (
	TypeTableHeader         uint8 = 0
	TypeTempSensor          uint8 = 1
	TypeFanPWM              uint8 = 2
	TypeFanDevice           uint8 = 3
	TypePowerSupply         uint8 = 4
	TypeRedundancyRule      uint8 = 5
	TypeIndicator           uint8 = 6
	TypePowerMeter          uint8 = 7
	TypeProcessor           uint8 = 8
	TypeStatus              uint8 = 9
	TypeSatelliteController uint8 = 10
	TypeFRU                 uint8 = 11
	TypeAssociation         uint8 = 12
	TypeI2CEngine           uint8 = 13
	TypeDIMMMapping         uint8 = 14 // deprecated
	TypeAltConfig           uint8 = 15
	TypeValidation          uint8 = 16 // deprecated
	TypeSensorGroup         uint8 = 17
	TypeLookupTable         uint8 = 18
	TypeThrottle            uint8 = 19
	TypeSystemDevice        uint8 = 20
	TypePECISegment         uint8 = 21
	TypePatch               uint8 = 22
	TypeReplacement         uint8 = 23
	TypeEndOfTable          uint8 = 255
)

// Record header flag bits.
const (
	FlagHiddenSensor = 0x0001 // temperature sensor is not exposed to the host
)

// Table header flag bits.
const (
	TableFlagLegacy     = 0x00000001 // a newer table follows this one
	TableFlagCodecMask  = 0x00000F00 // body codec, see format.CompressionType
	TableFlagCodecShift = 8
)

// Sizes in bytes.
const (
	SizeUnit          = 16                          // unit of the record size field
	RecordHeaderSize  = 32                          // fixed record header size
	NameSize          = 20                          // fixed-width record name
	DescriptionSize   = 32                          // table description text
	TableHeaderSize   = 112                         // table header record, header included
	TableHeaderUnits  = TableHeaderSize / SizeUnit  // size field of the table header record
	RecordHeaderUnits = RecordHeaderSize / SizeUnit // size field of a payload-less record
	MaxRecordSize     = 0xFF * SizeUnit             // largest size a record can declare
)

// Reserved record identifiers.
const (
	IDNotFound uint16 = 0xFFFE
)

// Classify maps a record type code and its flags to the index category.
// It returns format.CategoryNone for the end-of-table sentinel and for
// unknown type codes.
func Classify(typeCode uint8, flags uint16) format.Category {
	switch typeCode {
	case TypeTableHeader:
		return format.CategoryTableHeader
	case TypeTempSensor:
		if flags&FlagHiddenSensor != 0 {
			return format.CategoryHiddenTempSensor
		}
		return format.CategoryTempSensor
	case TypeFanPWM:
		return format.CategoryFanPWM
	case TypeFanDevice:
		return format.CategoryFanDevice
	case TypePowerSupply:
		return format.CategoryPowerSupply
	case TypeRedundancyRule:
		return format.CategoryRedundancyRule
	case TypeIndicator:
		return format.CategoryIndicator
	case TypePowerMeter:
		return format.CategoryPowerMeter
	case TypeProcessor:
		return format.CategoryProcessor
	case TypeStatus:
		return format.CategoryStatus
	case TypeSatelliteController:
		return format.CategorySatelliteController
	case TypeFRU:
		return format.CategoryFRU
	case TypeAssociation:
		return format.CategoryAssociation
	case TypeI2CEngine:
		return format.CategoryI2CEngine
	case TypeDIMMMapping:
		return format.CategoryDIMMMapping
	case TypeAltConfig:
		return format.CategoryAltConfig
	case TypeValidation:
		return format.CategoryValidation
	case TypeSensorGroup:
		return format.CategorySensorGroup
	case TypeLookupTable:
		return format.CategoryLookupTable
	case TypeThrottle:
		return format.CategoryThrottle
	case TypeSystemDevice:
		return format.CategorySystemDevice
	case TypePECISegment:
		return format.CategoryPECISegment
	case TypePatch, TypeReplacement:
		return format.CategoryPatch
	default:
		return format.CategoryNone
	}
}

// TypeCodeOf returns the type code and flags that classify into c.
// Used by encoders; Patch maps to the patch code, not the replacement code.
func TypeCodeOf(c format.Category) (typeCode uint8, flags uint16, ok bool) {
	switch c {
	case format.CategoryTempSensor:
		return TypeTempSensor, 0, true
	case format.CategoryHiddenTempSensor:
		return TypeTempSensor, FlagHiddenSensor, true
	case format.CategoryPatch:
		return TypePatch, 0, true
	}

	if !c.Valid() {
		return 0, 0, false
	}

	// Remaining categories follow their type code shifted by the split
	// temperature sensor category.
	if c < format.CategoryHiddenTempSensor {
		return uint8(c), 0, true
	}

	return uint8(c) - 1, 0, true
}
