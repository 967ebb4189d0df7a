// Package names builds a satellite display-name catalog from a Two-Line
// Element set, so database entries can carry a real name instead of a
// registry record id.
package names

import (
	"context"
	"fmt"
	"strings"

	"github.com/akhenakh/sgp4"
	"github.com/spf13/afero"
)

// Catalog maps NORAD catalog numbers to satellite names.
type Catalog map[int]string

// Name returns the name for id.
func (c Catalog) Name(id int) (string, bool) {
	n, ok := c[id]
	return n, ok
}

// Getter fetches a document body. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Load reads a TLE set from source, which is either an http(s) URL fetched
// through g or a path on fsys.
func Load(ctx context.Context, fsys afero.Fs, g Getter, source string) (Catalog, error) {
	var raw []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		raw, err = g.Get(ctx, source)
	} else {
		raw, err = afero.ReadFile(fsys, source)
	}
	if err != nil {
		return nil, fmt.Errorf("load TLE set: %w", err)
	}
	return ParseTLE(string(raw))
}

// ParseTLE extracts names from text in the three-line format (name, line 1,
// line 2) served by CelesTrak. Groups sgp4 cannot parse are skipped; an
// input without a single valid group is an error.
func ParseTLE(raw string) (Catalog, error) {
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n")), "\n")

	cat := make(Catalog)
	for i := 0; i+2 < len(lines); {
		name := strings.TrimSpace(lines[i])
		l1 := strings.TrimSpace(lines[i+1])
		l2 := strings.TrimSpace(lines[i+2])
		if !strings.HasPrefix(l1, "1 ") || !strings.HasPrefix(l2, "2 ") {
			// Out of step, e.g. a stray blank line; resync one line later.
			i++
			continue
		}
		i += 3

		tle, err := sgp4.ParseTLE(name + "\n" + l1 + "\n" + l2)
		if err != nil {
			continue
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "0 "))
		if name == "" {
			continue
		}
		cat[tle.SatelliteNumber] = name
	}

	if len(cat) == 0 {
		return nil, fmt.Errorf("no usable TLEs found in %d lines of input", len(lines))
	}
	return cat, nil
}
