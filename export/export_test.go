package export

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/endian"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/fixture"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
)

func newTable(t *testing.T, b *fixture.Builder) *table.Table {
	t.Helper()

	a, err := loader.LoadBytes(b.Image())
	require.NoError(t, err)

	tbl, err := table.New(a)
	require.NoError(t, err)

	return tbl
}

type frame struct {
	id     uint16
	offset uint16
	data   []byte
}

// readFrames splits an extract given the length of every frame's data.
func readFrames(t *testing.T, data []byte, lengths ...int) []frame {
	t.Helper()

	engine := endian.TableEngine()
	frames := make([]frame, 0, len(lengths))
	for _, n := range lengths {
		require.GreaterOrEqual(t, len(data), FrameHeaderSize+n)
		frames = append(frames, frame{
			id:     engine.Uint16(data[0:2]),
			offset: engine.Uint16(data[2:4]),
			data:   data[FrameHeaderSize : FrameHeaderSize+n],
		})
		data = data[FrameHeaderSize+n:]
	}
	require.Empty(t, data)

	return frames
}

func recordTable() *fixture.Builder {
	return fixture.New("export").
		Add(fixture.Record{Category: format.CategoryFRU, ID: 0x10, Name: "Mainboard", Payload: []byte("serial-0001")}).
		AddN(format.CategoryTempSensor, 0x100, 20).
		AddN(format.CategoryPowerSupply, 0x200, 18).
		AddN(format.CategoryStatus, 0x300, 100)
}

func TestByID(t *testing.T) {
	tbl := newTable(t, recordTable())
	fru, ok := tbl.ByID(0x10)
	require.True(t, ok)

	t.Run("Valid and invalid id", func(t *testing.T) {
		chunk, err := ByID(tbl, 0xCAFE, []Request{
			{ID: 0x10, Range: Range{Offset: section.RecordHeaderSize, Length: 6}},
			{ID: 0x7777, Range: Range{Length: 4}},
		})
		require.NoError(t, err)
		require.Equal(t, 1, chunk.Count)
		require.Equal(t, uint32(0xCAFE), chunk.Token)

		frames := readFrames(t, chunk.Data, 6)
		require.Equal(t, uint16(0x10), frames[0].id)
		require.Equal(t, uint16(section.RecordHeaderSize), frames[0].offset)
		require.Equal(t, []byte("serial"), frames[0].data)
	})

	t.Run("Whole record", func(t *testing.T) {
		chunk, err := ByID(tbl, 1, []Request{{ID: 0x10}})
		require.NoError(t, err)
		require.Equal(t, 1, chunk.Count)

		frames := readFrames(t, chunk.Data, fru.Size())
		require.Equal(t, tbl.Bytes(fru), frames[0].data)
	})

	t.Run("Range outside record", func(t *testing.T) {
		chunk, err := ByID(tbl, 2, []Request{
			{ID: 0x10, Range: Range{Offset: uint16(fru.Size())}},
			{ID: 0x10, Range: Range{Offset: uint16(fru.Size() - 8), Length: 16}},
			{ID: 0x10, Range: Range{Offset: uint16(fru.Size() - 8), Length: 8}},
		})
		require.NoError(t, err)
		require.Equal(t, 1, chunk.Count)
		readFrames(t, chunk.Data, 8)
	})

	t.Run("End of table record", func(t *testing.T) {
		chunk, err := ByID(tbl, 3, []Request{{ID: fixture.EndOfTableID}})
		require.NoError(t, err)
		require.Equal(t, 1, chunk.Count)
		readFrames(t, chunk.Data, section.RecordHeaderSize)
	})

	t.Run("Budget", func(t *testing.T) {
		reqs := make([]Request, 100)
		for i := range reqs {
			reqs[i] = Request{ID: 0x300 + uint16(i)}
		}

		chunk, err := ByID(tbl, 4, reqs)
		require.NoError(t, err)

		frameSize := FrameHeaderSize + 48
		require.Equal(t, MaxChunkSize/frameSize, chunk.Count)
		require.Len(t, chunk.Data, chunk.Count*frameSize)
		require.LessOrEqual(t, len(chunk.Data), MaxChunkSize)
	})

	t.Run("Empty request", func(t *testing.T) {
		chunk, err := ByID(tbl, 5, nil)
		require.NoError(t, err)
		require.Zero(t, chunk.Count)
		require.Empty(t, chunk.Data)
		require.Equal(t, uint32(5), chunk.Token)
	})

	t.Run("Too many entries", func(t *testing.T) {
		_, err := ByID(tbl, 6, make([]Request, MaxRequestEntries+1))
		require.ErrorIs(t, err, errs.ErrTooManyRequestEntries)

		_, err = ByID(tbl, 6, make([]Request, MaxRequestEntries))
		require.NoError(t, err)
	})

	t.Run("Skipped entries are logged", func(t *testing.T) {
		var logs bytes.Buffer
		logger := zerolog.New(&logs).Level(zerolog.DebugLevel)

		_, err := ByID(tbl, 7, []Request{{ID: 0x7777}}, WithLogger(logger))
		require.NoError(t, err)
		require.Contains(t, logs.String(), "record not found")
	})
}

func TestByID_EndOfTableWithPadding(t *testing.T) {
	eot := section.RecordHeader{Type: section.TypeEndOfTable, Size: 4, ID: fixture.EndOfTableID}
	tbl := newTable(t, fixture.New("padded eot").
		AddN(format.CategoryFRU, 1, 2).
		WithoutEndOfTable().
		AddRaw(eot.AppendTo(nil)).
		AddRaw(make([]byte, 32)))

	chunk, err := ByID(tbl, 1, []Request{{ID: fixture.EndOfTableID}})
	require.NoError(t, err)
	require.Equal(t, 1, chunk.Count)
	readFrames(t, chunk.Data, section.RecordHeaderSize)
}

func TestByID_ResultOwnedByCaller(t *testing.T) {
	tbl := newTable(t, recordTable())

	first, err := ByID(tbl, 1, []Request{{ID: 0x10}})
	require.NoError(t, err)
	snapshot := append([]byte(nil), first.Data...)

	_, err = ByID(tbl, 2, []Request{{ID: 0x300}, {ID: 0x301}})
	require.NoError(t, err)
	require.Equal(t, snapshot, first.Data)
}

func TestByCategory(t *testing.T) {
	tbl := newTable(t, recordTable())

	t.Run("Ranges per record", func(t *testing.T) {
		chunk, err := ByCategory(tbl, format.CategoryTempSensor, []Range{
			{Offset: 0, Length: 4},
			{Offset: section.RecordHeaderSize, Length: 16},
		})
		require.NoError(t, err)
		require.Equal(t, 20, chunk.Records)

		lengths := make([]int, 0, 40)
		for range 20 {
			lengths = append(lengths, 4, 16)
		}
		frames := readFrames(t, chunk.Data, lengths...)
		require.Equal(t, uint16(0x100), frames[0].id)
		require.Equal(t, []byte{section.TypeTempSensor, 3}, frames[0].data[:2])
		require.Equal(t, uint16(0x100), frames[1].id)
		require.Equal(t, uint16(0x113), frames[39].id)
	})

	t.Run("Truncated records included", func(t *testing.T) {
		require.Equal(t, 16, tbl.Count(format.CategoryPowerSupply))

		chunk, err := ByCategory(tbl, format.CategoryPowerSupply, []Range{{Length: 2}})
		require.NoError(t, err)
		require.Equal(t, 18, chunk.Records)
	})

	t.Run("Records without an in-range entry skipped", func(t *testing.T) {
		chunk, err := ByCategory(tbl, format.CategoryPowerSupply, []Range{{Offset: 200}})
		require.NoError(t, err)
		require.Zero(t, chunk.Records)
		require.Empty(t, chunk.Data)
	})

	t.Run("Record frames are not split", func(t *testing.T) {
		// 3 frames of 52 bytes per record, 25 records fit in 3900 bytes.
		chunk, err := ByCategory(tbl, format.CategoryStatus, []Range{{}, {}, {}})
		require.NoError(t, err)
		require.Equal(t, 25, chunk.Records)
		require.Len(t, chunk.Data, 25*3*(FrameHeaderSize+48))
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := ByCategory(tbl, format.CategoryNone, nil)
		require.ErrorIs(t, err, errs.ErrInvalidCategory)

		_, err = ByCategory(tbl, format.CategoryFRU, make([]Range, MaxRequestEntries+1))
		require.ErrorIs(t, err, errs.ErrTooManyRequestEntries)
	})
}

// ByCategory has no continuation cursor: every call rescans from the table
// start, so records past the first extract are unreachable through it.
func TestByCategory_NoCursor(t *testing.T) {
	tbl := newTable(t, recordTable())

	first, err := ByCategory(tbl, format.CategoryStatus, []Range{{}})
	require.NoError(t, err)
	require.Equal(t, MaxChunkSize/(FrameHeaderSize+48), first.Records)
	require.Less(t, first.Records, 100)

	second, err := ByCategory(tbl, format.CategoryStatus, []Range{{}})
	require.NoError(t, err)
	require.Equal(t, first, second)
}
