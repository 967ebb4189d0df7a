package flybydb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax is returned by Parse for input that does not follow the
// database grammar.
var ErrSyntax = errors.New("flyby.db syntax error")

// maxLine bounds a single line of input.
const maxLine = 16 << 20

// Entry is one satellite section of the database.
type Entry struct {
	Name        string
	SatelliteID int

	// Squint is true when the location line carries an attitude
	// latitude/longitude pair instead of the "No alat, alon" filler.
	Squint      bool
	AttitudeLat float64
	AttitudeLon float64

	Transponders []Transponder
}

// Transponder is one block of an entry. Frequencies are in MHz.
type Transponder struct {
	Description  string
	UplinkLow    float64
	UplinkHigh   float64
	DownlinkLow  float64
	DownlinkHigh float64
}

// Parse reads a database from r. Reading stops at end of input or at a
// blank line where an entry would start, matching the tracker's reader.
func Parse(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	p := &parser{sc: sc}

	var entries []Entry
	for {
		name, ok := p.next()
		if !ok || name == "" {
			break
		}
		ent, err := p.entry(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ent)
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type parser struct {
	sc   *bufio.Scanner
	line int
}

func (p *parser) next() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	p.line++
	return strings.TrimRight(p.sc.Text(), "\r"), true
}

func (p *parser) must(what string) (string, error) {
	s, ok := p.next()
	if !ok {
		return "", fmt.Errorf("%w: line %d: unexpected end of input, want %s", ErrSyntax, p.line+1, what)
	}
	return s, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) entry(name string) (Entry, error) {
	ent := Entry{Name: name}

	s, err := p.must("satellite id")
	if err != nil {
		return ent, err
	}
	if ent.SatelliteID, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return ent, p.errorf("bad satellite id %q", s)
	}

	if s, err = p.must("location"); err != nil {
		return ent, err
	}
	if !strings.HasPrefix(s, "No") {
		if ent.AttitudeLat, ent.AttitudeLon, err = parsePair(s); err != nil {
			return ent, p.errorf("bad location %q", s)
		}
		ent.Squint = true
	}

	for {
		desc, err := p.must(entryEnd)
		if err != nil {
			return ent, err
		}
		if desc == entryEnd {
			return ent, nil
		}
		tp, err := p.block(desc)
		if err != nil {
			return ent, err
		}
		ent.Transponders = append(ent.Transponders, tp)
	}
}

func (p *parser) block(desc string) (Transponder, error) {
	tp := Transponder{Description: desc}

	s, err := p.must("uplink band")
	if err != nil {
		return tp, err
	}
	if tp.UplinkLow, tp.UplinkHigh, err = parsePair(s); err != nil {
		return tp, p.errorf("bad uplink band %q", s)
	}

	if s, err = p.must("downlink band"); err != nil {
		return tp, err
	}
	if tp.DownlinkLow, tp.DownlinkHigh, err = parsePair(s); err != nil {
		return tp, p.errorf("bad downlink band %q", s)
	}

	// Weekly and orbital schedule lines carry no data.
	for _, what := range []string{"weekly schedule", "orbital schedule"} {
		if _, err := p.must(what); err != nil {
			return tp, err
		}
	}
	return tp, nil
}

// parsePair parses "a, b".
func parsePair(s string) (float64, float64, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, errors.New("missing comma")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
