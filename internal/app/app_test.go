package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/large-farva/flybydb/internal/config"
	"github.com/large-farva/flybydb/internal/logger"
	"github.com/large-farva/flybydb/internal/transponder"
)

const dbPath = "/home/op/.local/share/flyby/flyby.db"

const transmitters = `[
  {"uuid":"dead-1","description":"Dead transponder","alive":false,"uplink_low":null,
   "downlink_low":0,"downlink_high":0,"invert":true,"baud":null,"norad_cat_id":43700},
  {"uuid":"iss-1","description":"FM Voice","alive":true,"uplink_low":145900000,"uplink_high":null,
   "downlink_low":437800000,"downlink_high":437800000,"invert":false,"baud":1200,"norad_cat_id":25544}
]`

const issTLE = "ISS (ZARYA)\n" +
	"1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927\n" +
	"2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537\n"

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newApp(url string, fsys afero.Fs, mod func(*Options)) *App {
	cfg := config.Default()
	cfg.Source.URL = url
	opts := Options{
		Logger: logger.Discard(),
		Cfg:    cfg,
		FS:     fsys,
		Path:   dbPath,
	}
	if mod != nil {
		mod(&opts)
	}
	return New(opts)
}

func readDB(t *testing.T, fsys afero.Fs) string {
	t.Helper()
	b, err := afero.ReadFile(fsys, dbPath)
	require.NoError(t, err)
	return string(b)
}

func TestRunWritesDatabase(t *testing.T) {
	fsys := afero.NewMemMapFs()
	a := newApp(serve(t, http.StatusOK, transmitters), fsys, nil)

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, 2, res.Summary.Entries)

	db := readDB(t, fsys)
	assert.Equal(t, res.Bytes, len(db))
	assert.True(t, strings.HasPrefix(db, "iss-1\n25544\n"), "entries sorted by catalog number")
	assert.Contains(t, db, "FM Voice - Non-inverting - Baud = 1200 \n145.900000, 145.900000\n437.800000, 437.800000\n")
	assert.Contains(t, db, "Dead transponder - (dead)\n0.000000, 0.000000\n0.000000, 0.000000\n")
	assert.True(t, strings.HasSuffix(db, "No orbital schedule\nend\n"))
	assert.Equal(t, 2, strings.Count(db, "\nend\n"))
}

func TestRunFailuresLeaveDatabase(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"fetch", http.StatusBadGateway, "upstream down", transponder.ErrFetch},
		{"parse", http.StatusOK, "<html>", transponder.ErrParse},
		{"validation", http.StatusOK, `[{"uuid":"x","norad_cat_id":1}]`, transponder.ErrValidation},
		{"empty uuid", http.StatusOK, `[{"uuid":"","description":"FM","norad_cat_id":1}]`, transponder.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, dbPath, []byte("previous\n"), 0o644))

			_, err := newApp(serve(t, tt.status, tt.body), fsys, nil).Run(context.Background())
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, "previous\n", readDB(t, fsys))
		})
	}
}

func TestRunWriteFailure(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := newApp(serve(t, http.StatusOK, transmitters), fsys, nil).Run(context.Background())
	require.ErrorIs(t, err, transponder.ErrWrite)
}

func TestRunEmptyList(t *testing.T) {
	fsys := afero.NewMemMapFs()
	res, err := newApp(serve(t, http.StatusOK, "[]"), fsys, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Empty(t, readDB(t, fsys))
}

func TestRunConfirm(t *testing.T) {
	url := serve(t, http.StatusOK, transmitters)

	t.Run("not asked for a new file", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		asked := false
		_, err := newApp(url, fsys, func(o *Options) {
			o.Confirm = func(string) (bool, error) {
				asked = true
				return false, nil
			}
		}).Run(context.Background())
		require.NoError(t, err)
		assert.False(t, asked)
	})

	t.Run("declined", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, dbPath, []byte("previous\n"), 0o644))

		var got string
		res, err := newApp(url, fsys, func(o *Options) {
			o.Confirm = func(p string) (bool, error) {
				got = p
				return false, nil
			}
		}).Run(context.Background())
		require.ErrorIs(t, err, ErrDeclined)
		assert.False(t, res.Written)
		assert.Equal(t, dbPath, got)
		assert.Equal(t, "previous\n", readDB(t, fsys))
	})

	t.Run("accepted", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, dbPath, []byte("previous\n"), 0o644))

		_, err := newApp(url, fsys, func(o *Options) {
			o.Confirm = func(string) (bool, error) { return true, nil }
		}).Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, readDB(t, fsys), "25544")
	})
}

func TestRunDryRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var out bytes.Buffer
	res, err := newApp(serve(t, http.StatusOK, transmitters), fsys, func(o *Options) {
		o.DryRun = true
		o.Stdout = &out
	}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Contains(t, out.String(), "iss-1\n25544\nNo alat, alon\n")

	exists, err := afero.Exists(fsys, dbPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunDisplayNames(t *testing.T) {
	url := serve(t, http.StatusOK, transmitters)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/tle/amateur.txt", []byte(issTLE), 0o644))
	_, err := newApp(url, fsys, func(o *Options) { o.Cfg.Names.TLE = "/tle/amateur.txt" }).Run(context.Background())
	require.NoError(t, err)
	db := readDB(t, fsys)
	assert.True(t, strings.HasPrefix(db, "ISS (ZARYA)\n25544\n"))
	assert.Contains(t, db, "dead-1\n43700\n", "unknown satellites keep the record id")

	// An unreadable TLE source falls back to record ids.
	fsys = afero.NewMemMapFs()
	_, err = newApp(url, fsys, func(o *Options) { o.Cfg.Names.TLE = "/tle/missing.txt" }).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readDB(t, fsys), "iss-1\n25544\n"))
}

func TestInspect(t *testing.T) {
	fsys := afero.NewMemMapFs()
	a := newApp(serve(t, http.StatusOK, transmitters), fsys, nil)
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, a.Inspect(&out))
	s := out.String()
	assert.Contains(t, s, "FLYBY TRANSPONDER DATABASE")
	assert.Contains(t, s, "25544")
	assert.Contains(t, s, "437.800")
	assert.Contains(t, s, "2 satellites, 2 transponders")
	assert.NotContains(t, s, "\033[", "no escapes without color")
}

func TestInspectMissing(t *testing.T) {
	a := newApp("http://127.0.0.1:1", afero.NewMemMapFs(), nil)
	require.Error(t, a.Inspect(&bytes.Buffer{}))
}

func TestInspectCorrupt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, dbPath, []byte("x\nnot-a-number\n"), 0o644))
	err := newApp("http://127.0.0.1:1", fsys, nil).Inspect(&bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), dbPath)
}

func TestPadRightCountsRunes(t *testing.T) {
	for _, s := range []string{"AO-7", "Ñañá-Sat", "東京"} {
		got := padRight(s, 12)
		assert.Equal(t, 12, utf8.RuneCountInString(got), s)
		assert.True(t, strings.HasPrefix(got, s))
	}
	assert.Equal(t, "toolongname", padRight("toolongname", 4))
}

func TestInspectAlignsNonASCIINames(t *testing.T) {
	fsys := afero.NewMemMapFs()
	db := "Ñañá-Sat\n1\nNo alat, alon\nend\nAO-7\n7530\nNo alat, alon\nend\n"
	require.NoError(t, afero.WriteFile(fsys, dbPath, []byte(db), 0o644))

	var out bytes.Buffer
	require.NoError(t, newApp("http://127.0.0.1:1", fsys, nil).Inspect(&out))

	var cols []int
	for _, l := range strings.Split(out.String(), "\n") {
		if strings.Contains(l, "Ñañá-Sat") || strings.Contains(l, "AO-7") {
			cols = append(cols, utf8.RuneCountInString(l[:strings.LastIndex(l, " ")]))
		}
	}
	require.Len(t, cols, 2)
	assert.Equal(t, cols[0], cols[1])
}
