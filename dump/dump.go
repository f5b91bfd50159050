// Package dump renders the metadata of a loaded table for operators and
// telemetry collectors.
//
// A Snapshot is a flat, self-contained copy of the table index. It can be
// encoded as msgpack for telemetry or printed as text tables.
package dump

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	ptable "github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/topology"
)

// Category is the index entry of one category.
type Category struct {
	Name     string `msgpack:"name"`
	First    int    `msgpack:"first"`
	Count    int    `msgpack:"count"`
	Capacity int    `msgpack:"capacity"`
	Dropped  int    `msgpack:"dropped,omitempty"`
}

// Snapshot is the metadata dump of one table generation.
type Snapshot struct {
	Description     string     `msgpack:"description"`
	Version         string     `msgpack:"version"`
	BuildTime       time.Time  `msgpack:"build_time"`
	BuildCount      uint64     `msgpack:"build_count"`
	Digest          string     `msgpack:"digest"`
	Superseded      bool       `msgpack:"superseded,omitempty"`
	DeclaredRecords uint32     `msgpack:"declared_records"`
	IndexedRecords  int        `msgpack:"indexed_records"`
	TotalSize       uint32     `msgpack:"total_size"`
	ArenaCapacity   int        `msgpack:"arena_capacity"`
	HealthDevices   int        `msgpack:"health_devices"`
	DefaultFanPWM   uint32     `msgpack:"default_fan_pwm"`
	AltConfig       uint32     `msgpack:"alt_config"`
	EndOfTable      uint32     `msgpack:"end_of_table"`
	Categories      []Category `msgpack:"categories"`
}

// NewSnapshot copies the metadata of t.
func NewSnapshot(t *ptable.Table) Snapshot {
	h := t.Header()
	m := t.Metadata()
	a := t.Arena()

	s := Snapshot{
		Description:     h.DescriptionString(),
		Version:         h.Version(),
		BuildTime:       h.BuildTime(),
		BuildCount:      m.BuildCount,
		Digest:          a.Digest().String(),
		Superseded:      a.Superseded(),
		DeclaredRecords: h.RecordCount,
		IndexedRecords:  m.RecordCount,
		TotalSize:       h.TotalSize,
		ArenaCapacity:   a.Capacity(),
		HealthDevices:   m.HealthDevices(),
		DefaultFanPWM:   m.DefaultFanPWMOffset,
		AltConfig:       m.AltConfigOffset,
		EndOfTable:      m.EndOffset,
		Categories:      make([]Category, 0, format.NumCategories),
	}

	for _, c := range format.Categories() {
		idx := m.Index(c)
		s.Categories = append(s.Categories, Category{
			Name:     c.String(),
			First:    idx.First,
			Count:    idx.Count,
			Capacity: ptable.Capacities[c],
			Dropped:  m.Dropped[c],
		})
	}

	return s
}

// Marshal encodes s as msgpack.
func Marshal(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	enc.Reset(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(&s); err != nil {
		return nil, fmt.Errorf("encode metadata snapshot: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes a msgpack snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot

	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)

	dec.Reset(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode metadata snapshot: %w", err)
	}
	s.BuildTime = s.BuildTime.UTC()

	return s, nil
}

func offset(v uint32) string {
	if v == ptable.NoOffset {
		return "-"
	}

	return fmt.Sprintf("0x%04x", v)
}

// WriteSnapshot prints the table summary and the category index.
func WriteSnapshot(w io.Writer, s Snapshot) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.AppendHeader(table.Row{"Field", "Value"})
	summary.AppendRows([]table.Row{
		{"Description", s.Description},
		{"Version", s.Version},
		{"Built", s.BuildTime.Format(time.RFC3339)},
		{"Generation", s.BuildCount},
		{"Digest", s.Digest},
		{"Superseded legacy table", s.Superseded},
		{"Records (declared / indexed)", fmt.Sprintf("%d / %d", s.DeclaredRecords, s.IndexedRecords)},
		{"Size (table / arena)", fmt.Sprintf("%d / %d", s.TotalSize, s.ArenaCapacity)},
		{"Health devices", s.HealthDevices},
		{"Default fan PWM", offset(s.DefaultFanPWM)},
		{"Alternate config", offset(s.AltConfig)},
		{"End of table", offset(s.EndOfTable)},
	})
	summary.Render()

	index := table.NewWriter()
	index.SetOutputMirror(w)
	index.AppendHeader(table.Row{"Category", "First", "Count", "Capacity", "Dropped"})
	for _, c := range s.Categories {
		index.AppendRow(table.Row{c.Name, c.First, c.Count, c.Capacity, c.Dropped})
	}
	index.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	index.Render()
}

// WriteRecord prints a record header and a hex dump of the whole record.
func WriteRecord(w io.Writer, rec ptable.Record, raw []byte) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Offset", "ID", "Type", "Category", "Size", "Flags", "Entity", "Instance", "Name"})
	tw.AppendRow(table.Row{
		offset(uint32(rec.Offset)), //nolint: gosec
		fmt.Sprintf("0x%04x", rec.Header.ID),
		rec.Header.Type,
		rec.Category,
		rec.Size(),
		fmt.Sprintf("0x%04x", rec.Header.Flags),
		rec.Header.Entity,
		rec.Header.Instance,
		rec.Header.NameString(),
	})
	tw.Render()

	fmt.Fprint(w, hex.Dump(raw))
}

// WriteTopology prints the root engines and the routed segments.
func WriteTopology(w io.Writer, tp *topology.Topology) {
	engines := table.NewWriter()
	engines.SetOutputMirror(w)
	engines.AppendHeader(table.Row{"Engine", "Record", "Name", "Segments"})
	for id := range topology.MaxEngines {
		eng, ok := tp.Engine(uint8(id))
		if !ok {
			continue
		}
		engines.AppendRow(table.Row{id, fmt.Sprintf("0x%04x", eng.RecordID), cString(eng.Name[:]), eng.Segments})
	}
	engines.Render()

	segments := table.NewWriter()
	segments.SetOutputMirror(w)
	segments.AppendHeader(table.Row{"Segment", "Engine", "Mux", "Channel", "Speed (kHz)"})
	for id := range topology.MaxSegments {
		seg, ok := tp.Segment(uint8(id))
		if !ok {
			continue
		}
		segments.AppendRow(table.Row{
			fmt.Sprintf("0x%02x", seg.ID),
			tp.SegmentToEngine[id],
			fmt.Sprintf("0x%02x", seg.Mux),
			seg.Channel,
			seg.SpeedKHz,
		})
	}
	segments.Render()
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}
