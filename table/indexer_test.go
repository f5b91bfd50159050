package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/fixture"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

func loadArena(t *testing.T, b *fixture.Builder) *loader.Arena {
	t.Helper()

	a, err := loader.LoadBytes(b.Image())
	require.NoError(t, err)

	return a
}

func buildMeta(t *testing.T, b *fixture.Builder, opts ...Option) (*Metadata, error) {
	t.Helper()

	return Build(loadArena(t, b), opts...)
}

// serverTable is a small but complete table touching most categories.
func serverTable() *fixture.Builder {
	return fixture.New("server").
		AddN(format.CategoryTempSensor, 0x0100, 20).
		AddN(format.CategoryHiddenTempSensor, 0x0200, 4).
		AddN(format.CategoryFanPWM, 0x0300, 7).
		AddN(format.CategoryFanDevice, 0x0400, 6).
		AddN(format.CategoryPowerSupply, 0x0500, 2).
		AddN(format.CategoryRedundancyRule, 0x0600, 1).
		AddN(format.CategoryFRU, 0x0700, 5).
		AddN(format.CategoryI2CEngine, 0x0800, 2).
		AddN(format.CategoryAltConfig, 0x0900, 2).
		AddN(format.CategoryPatch, 0x0A00, 1)
}

func TestBuild(t *testing.T) {
	b := serverTable()
	a := loadArena(t, b)

	m, err := Build(a)
	require.NoError(t, err)

	require.Equal(t, 1, m.Count(format.CategoryTableHeader))
	require.Equal(t, 20, m.Count(format.CategoryTempSensor))
	require.Equal(t, 4, m.Count(format.CategoryHiddenTempSensor))
	require.Equal(t, 6, m.Count(format.CategoryFanPWM))
	require.Equal(t, 6, m.Count(format.CategoryFanDevice))
	require.Equal(t, 0, m.Count(format.CategoryIndicator))
	require.Equal(t, 2, m.Count(format.CategoryI2CEngine))
	require.Equal(t, 1+20+4+7+6+2+1+5+2+2+1, m.RecordCount)
	require.Zero(t, m.BuildCount)

	t.Run("Runs are prefix sums in layout order", func(t *testing.T) {
		first := 0
		for _, c := range format.Categories() {
			idx := m.Index(c)
			require.Equal(t, first, idx.First, c.String())

			placed := idx.Count + m.Dropped[c]
			if c == format.CategoryFanPWM {
				placed++
			}
			first += placed
		}
		require.Equal(t, m.RecordCount, first)
	})

	t.Run("Offsets point at records of their category", func(t *testing.T) {
		data := a.Bytes()
		for _, c := range format.Categories() {
			for _, off := range m.Offsets(c) {
				h, err := section.ParseRecordHeader(data[off:])
				require.NoError(t, err)
				require.Equal(t, c, h.Category())
			}
		}
	})

	t.Run("Well-known records", func(t *testing.T) {
		h, err := section.ParseRecordHeader(a.Bytes()[m.DefaultFanPWMOffset:])
		require.NoError(t, err)
		require.Equal(t, uint16(0x0306), h.ID)

		h, err = section.ParseRecordHeader(a.Bytes()[m.AltConfigOffset:])
		require.NoError(t, err)
		require.Equal(t, uint16(0x0900), h.ID)

		h, err = section.ParseRecordHeader(a.Bytes()[m.EndOffset:])
		require.NoError(t, err)
		require.True(t, h.IsEndOfTable())
	})

	t.Run("Data records within declared count", func(t *testing.T) {
		require.LessOrEqual(t, uint32(m.DataRecords()+1+1), a.Header().RecordCount)
	})
}

func TestBuild_Deterministic(t *testing.T) {
	image := serverTable().Image()

	var first *Metadata
	for range 3 {
		a, err := loader.LoadBytes(image)
		require.NoError(t, err)

		m, err := Build(a)
		require.NoError(t, err)

		if first == nil {
			first = m
			continue
		}
		require.Equal(t, first, m)
	}
}

func TestBuild_FanPWMDefault(t *testing.T) {
	m, err := buildMeta(t, fixture.New("fans").AddN(format.CategoryFanPWM, 0x50, 3))
	require.NoError(t, err)
	require.Equal(t, 2, m.Count(format.CategoryFanPWM))
	require.NotEqual(t, NoOffset, m.DefaultFanPWMOffset)
	require.NotContains(t, m.Offsets(format.CategoryFanPWM), m.DefaultFanPWMOffset)

	t.Run("No fan PWM records", func(t *testing.T) {
		m, err := buildMeta(t, fixture.New("fanless").AddN(format.CategoryFRU, 1, 1))
		require.NoError(t, err)
		require.Zero(t, m.Count(format.CategoryFanPWM))
		require.Equal(t, NoOffset, m.DefaultFanPWMOffset)
		require.Equal(t, NoOffset, m.AltConfigOffset)
	})
}

func TestBuild_CategoryCap(t *testing.T) {
	var logs bytes.Buffer
	b := fixture.New("psu").
		AddN(format.CategoryPowerSupply, 0x60, 18).
		AddN(format.CategoryRedundancyRule, 0x80, 1)

	m, err := buildMeta(t, b, WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)
	require.Equal(t, 16, m.Count(format.CategoryPowerSupply))
	require.Equal(t, 2, m.Dropped[format.CategoryPowerSupply])
	require.Contains(t, logs.String(), "category exceeds capacity")
	require.Contains(t, logs.String(), `"category":"PowerSupply"`)

	psu := m.Index(format.CategoryPowerSupply)
	require.Equal(t, psu.First+18, m.Index(format.CategoryRedundancyRule).First)
	require.Equal(t, 1, m.Count(format.CategoryRedundancyRule))
}

func TestBuild_TempSensorCap(t *testing.T) {
	t.Run("Hidden sensors trimmed first", func(t *testing.T) {
		m, err := buildMeta(t, fixture.New("temps").
			AddN(format.CategoryTempSensor, 0x1000, 200).
			AddN(format.CategoryHiddenTempSensor, 0x2000, 100))
		require.NoError(t, err)
		require.Equal(t, 200, m.Count(format.CategoryTempSensor))
		require.Equal(t, 56, m.Count(format.CategoryHiddenTempSensor))
		require.Equal(t, 44, m.Dropped[format.CategoryHiddenTempSensor])
	})

	t.Run("Visible sensors trimmed when hidden are exhausted", func(t *testing.T) {
		m, err := buildMeta(t, fixture.New("temps").
			AddN(format.CategoryTempSensor, 0x1000, 256).
			AddN(format.CategoryHiddenTempSensor, 0x2000, 10))
		require.NoError(t, err)
		require.Equal(t, 256, m.Count(format.CategoryTempSensor))
		require.Zero(t, m.Count(format.CategoryHiddenTempSensor))
	})
}

func TestBuild_Errors(t *testing.T) {
	t.Run("Too many records", func(t *testing.T) {
		_, err := buildMeta(t, fixture.New("big").AddN(format.CategoryAssociation, 1, MaxRecords))
		require.ErrorIs(t, err, errs.ErrTooManyRecords)
	})

	t.Run("Health device overflow", func(t *testing.T) {
		_, err := buildMeta(t, fixture.New("health").
			AddN(format.CategoryTempSensor, 0x1000, 256).
			AddN(format.CategoryStatus, 0x2000, 128).
			AddN(format.CategoryIndicator, 0x3000, 64))
		require.ErrorIs(t, err, errs.ErrHealthDeviceOverflow)
	})

	t.Run("Malformed record", func(t *testing.T) {
		_, err := buildMeta(t, fixture.New("bad").
			AddN(format.CategoryFRU, 1, 2).
			AddRaw(rawRecord(section.TypeFRU, 0, 3)))
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})

	t.Run("Missing end of table", func(t *testing.T) {
		_, err := buildMeta(t, fixture.New("open").AddN(format.CategoryFRU, 1, 2).WithoutEndOfTable())
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}

func TestBuild_UnknownCategory(t *testing.T) {
	var logs bytes.Buffer
	m, err := buildMeta(t, fixture.New("unknown").
		AddN(format.CategoryFRU, 1, 2).
		AddRaw(rawRecord(77, 3, 0x77)).
		AddN(format.CategoryFRU, 3, 1), WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)
	require.Equal(t, 3, m.Count(format.CategoryFRU))
	require.Equal(t, 4, m.RecordCount)

	out := logs.String()
	require.Equal(t, 1, strings.Count(out, "unknown record type, not indexed"))
	require.Contains(t, out, `"type":77`)
	require.Contains(t, out, `"id":119`)
}
