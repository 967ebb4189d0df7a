// Package flybydb reads and writes the flyby transponder database, a flat
// line-oriented file with one section per satellite:
//
//	<display name>
//	<NORAD catalog id>
//	No alat, alon
//	<description>                 \
//	<uplink MHz low>, <high>       |
//	<downlink MHz low>, <high>     | one block per transponder
//	No weekly schedule             |
//	No orbital schedule           /
//	end
//
// Encode is the serializer used to regenerate the file from registry data;
// Parse reads a file back for inspection.
package flybydb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/large-farva/flybydb/internal/transponder"
)

// MaxTransponders is the number of transponder blocks flyby reads per
// satellite. Further blocks are written but ignored by the tracker.
const MaxTransponders = 10

const (
	noLocation   = "No alat, alon"
	noWeekly     = "No weekly schedule"
	noOrbital    = "No orbital schedule"
	entryEnd     = "end"
	bandFormat   = "%f, %f\n"
	hzPerMHz     = 1_000_000
	suffixInv    = " - Inverting"
	suffixNonInv = " - Non-inverting"
	suffixDead   = " - (dead)"
)

// Namer supplies a display name for a satellite. ok is false when the
// namer has nothing for id.
type Namer interface {
	Name(id int) (name string, ok bool)
}

// Options tunes the serializer.
type Options struct {
	// Names, if set, provides display names. Satellites it does not know
	// fall back to the record id of their first transponder.
	Names Namer
}

// Summary describes what Encode wrote.
type Summary struct {
	Entries      int
	Transponders int
	// Overfull lists satellite ids with more than MaxTransponders blocks.
	Overfull []int
}

// Marshal serializes raws into memory. See Encode.
func Marshal(raws []transponder.Raw, opts Options) ([]byte, Summary, error) {
	var buf bytes.Buffer
	sum, err := Encode(&buf, raws, opts)
	if err != nil {
		return nil, sum, err
	}
	return buf.Bytes(), sum, nil
}

// Encode normalizes raws, groups them by satellite id and writes the
// database to w. Entries are in ascending id order; transponders keep their
// input order within an entry. An empty input writes nothing. raws is not
// modified.
func Encode(w io.Writer, raws []transponder.Raw, opts Options) (Summary, error) {
	recs := sortedRecords(raws)

	e := &encoder{w: bufio.NewWriter(w), names: opts.Names}

	var prev *int
	for _, rec := range recs {
		prev = e.record(prev, rec)
	}
	if prev != nil {
		e.closeEntry(*prev)
	}

	// bufio.Writer keeps the first write error; Flush reports it.
	if err := e.w.Flush(); err != nil {
		return e.sum, err
	}
	return e.sum, nil
}

// sortedRecords returns a normalized copy of raws, stable-sorted by
// satellite id so ties keep fetch order.
func sortedRecords(raws []transponder.Raw) []transponder.Record {
	recs := make([]transponder.Record, len(raws))
	for i, r := range raws {
		recs[i] = transponder.Normalize(r)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].SatelliteID < recs[j].SatelliteID
	})
	return recs
}

type encoder struct {
	w      *bufio.Writer
	names  Namer
	sum    Summary
	blocks int // blocks in the open entry
}

// record writes one transponder, opening and closing entries as the
// satellite id changes. prev is the id of the open entry, nil before the
// first record; the returned pointer is the new open entry.
func (e *encoder) record(prev *int, rec transponder.Record) *int {
	id := rec.SatelliteID
	if prev != nil && *prev != id {
		e.closeEntry(*prev)
	}
	if prev == nil || *prev != id {
		e.openEntry(rec)
	}
	e.block(rec)
	return &id
}

func (e *encoder) openEntry(rec transponder.Record) {
	name := rec.RecordID
	if e.names != nil {
		if n, ok := e.names.Name(rec.SatelliteID); ok && n != "" {
			name = n
		}
	}
	fmt.Fprintln(e.w, unmark(name))
	fmt.Fprintln(e.w, rec.SatelliteID)
	fmt.Fprintln(e.w, noLocation)
	e.sum.Entries++
	e.blocks = 0
}

func (e *encoder) closeEntry(id int) {
	fmt.Fprintln(e.w, entryEnd)
	if e.blocks > MaxTransponders {
		e.sum.Overfull = append(e.sum.Overfull, id)
	}
}

func (e *encoder) block(rec transponder.Record) {
	fmt.Fprintln(e.w, unmark(describe(rec)))
	fmt.Fprintf(e.w, bandFormat, rec.UplinkLowHz/hzPerMHz, rec.UplinkHighHz/hzPerMHz)
	fmt.Fprintf(e.w, bandFormat, rec.DownlinkLowHz/hzPerMHz, rec.DownlinkHighHz/hzPerMHz)
	fmt.Fprintln(e.w, noWeekly)
	fmt.Fprintln(e.w, noOrbital)
	e.blocks++
	e.sum.Transponders++
}

// describe builds the description line of a block.
func describe(rec transponder.Record) string {
	s := rec.Description
	if rec.HasBothLinks() {
		if rec.Inverting {
			s += suffixInv
		} else {
			s += suffixNonInv
		}
	}
	if rec.BaudRate > 0 {
		s += " - Baud = " + strconv.FormatFloat(rec.BaudRate, 'f', -1, 64) + " "
	}
	if !rec.Alive {
		s += suffixDead
	}
	return s
}

// unmark indents a free-text line that would otherwise be taken for the
// end marker. flyby compares only the first three bytes of a line.
func unmark(s string) string {
	if strings.HasPrefix(s, entryEnd) {
		return " " + s
	}
	return s
}
