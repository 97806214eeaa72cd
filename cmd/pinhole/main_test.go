package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/pinhole/internal/db"
	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/pinhole"
	"github.com/banshee-data/pinhole/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchConfig = `{
  "name": "bench-100",
  "focal_length_mm": 15,
  "pixel_width_um": 150,
  "pixel_height_um": 150,
  "resolution_width": 100,
  "resolution_height": 100,
  "distortion": {
    "rounding_precision": 0.5,
    "entries": [
      {"offset": 0, "multiplier": 0},
      {"offset": 0.5, "multiplier": 1},
      {"offset": 1, "multiplier": 2}
    ]
  }
}`

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func runCapture(t *testing.T, command string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := run(command, args, &buf)
	return buf.String(), err
}

func TestRun_Distance(t *testing.T) {
	cfgPath := testutil.WriteTempFile(t, "bench.json", benchConfig)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default camera",
			args: []string{"-axis", "y", "-actual", "1.5", "-observed", "10"},
			want: "15.000000 mm\n",
		},
		{
			name: "metres in and out",
			args: []string{"-actual", "1.5", "-observed", "10", "-units", "m"},
			want: "15.000000 m\n",
		},
		{
			name: "millimetres in, metres out",
			args: []string{"-actual", "1.5", "-observed", "10", "-out-units", "m"},
			want: "0.015000 m\n",
		},
		{
			name: "config without centre",
			args: []string{"-config", cfgPath, "-actual", "1.5", "-observed", "10"},
			want: "15.000000 mm\n",
		},
		{
			name: "config with centre applies distortion",
			args: []string{"-config", cfgPath, "-actual", "1.5", "-observed", "10", "-center", "50,75"},
			want: "30.000000 mm\n",
		},
		{
			name: "centre at optical centre",
			args: []string{"-config", cfgPath, "-actual", "1.5", "-observed", "10", "-center", "50,50"},
			want: "15.000000 mm\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCapture(t, "distance", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_Size(t *testing.T) {
	got, err := runCapture(t, "size", "-distance", "15", "-observed", "10")
	require.NoError(t, err)
	assert.Equal(t, "1.500000 mm\n", got)

	got, err = runCapture(t, "size", "-axis", "x", "-distance", "15", "-observed", "10", "-units", "m", "-out-units", "cm")
	require.NoError(t, err)
	assert.Equal(t, "150.000000 cm\n", got)
}

func TestRun_MeasurementErrors(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		target  error
	}{
		{"zero observed", "distance", []string{"-actual", "1.5"}, pinhole.ErrInvalidArgument},
		{"negative actual", "distance", []string{"-actual", "-1", "-observed", "10"}, pinhole.ErrInvalidArgument},
		{"zero distance", "size", []string{"-observed", "10"}, pinhole.ErrInvalidArgument},
		{"bad axis", "distance", []string{"-axis", "z", "-actual", "1", "-observed", "10"}, pinhole.ErrInvalidArgument},
		{"bad units", "distance", []string{"-actual", "1", "-observed", "10", "-units", "furlong"}, nil},
		{"bad centre", "size", []string{"-distance", "1", "-observed", "10", "-center", "5"}, nil},
		{"profile and config", "distance", []string{"-profile", "a", "-config", "b", "-actual", "1", "-observed", "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCapture(t, tt.command, tt.args...)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	out, err := runCapture(t, "teleport")
	require.Error(t, err)
	assert.Contains(t, out, "Usage: pinhole")
}

func TestRun_Version(t *testing.T) {
	out, err := runCapture(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pinhole "), out)
}

func TestRun_ProfileLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profiles.db")
	cfgPath := testutil.WriteTempFile(t, "bench.json", benchConfig)

	out, err := runCapture(t, "profile", "add", "-db", dbPath, "-config", cfgPath, "-description", "bench rig")
	require.NoError(t, err)
	assert.Contains(t, out, "created bench-100")

	_, err = runCapture(t, "profile", "add", "-db", dbPath, "-config", cfgPath)
	assert.ErrorIs(t, err, db.ErrProfileExists)

	out, err = runCapture(t, "profile", "add", "-db", dbPath, "-config", cfgPath, "-replace", "-description", "rebuilt")
	require.NoError(t, err)
	assert.Contains(t, out, "updated bench-100")

	out, err = runCapture(t, "profile", "list", "-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "bench-100")
	assert.Contains(t, out, "3 @ 0.5")

	out, err = runCapture(t, "profile", "show", "-db", dbPath, "-name", "bench-100")
	require.NoError(t, err)
	var shown db.CameraProfile
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "rebuilt", shown.Description)
	assert.Len(t, shown.Distortion, 3)

	out, err = runCapture(t, "distance", "-db", dbPath, "-profile", "bench-100",
		"-actual", "1.5", "-observed", "10", "-center", "50,75")
	require.NoError(t, err)
	assert.Equal(t, "30.000000 mm\n", out)

	out, err = runCapture(t, "profile", "delete", "-db", dbPath, "-name", "bench-100")
	require.NoError(t, err)
	assert.Equal(t, "deleted bench-100\n", out)

	_, err = runCapture(t, "distance", "-db", dbPath, "-profile", "bench-100", "-actual", "1", "-observed", "1")
	assert.True(t, errors.Is(err, db.ErrProfileNotFound), "got %v", err)

	out, err = runCapture(t, "profile", "list", "-db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "no profiles\n", out)
}

func TestRun_ProfileErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profiles.db")

	_, err := runCapture(t, "profile")
	assert.Error(t, err)

	_, err = runCapture(t, "profile", "show", "-db", dbPath)
	assert.Error(t, err)

	_, err = runCapture(t, "profile", "frobnicate", "-db", dbPath)
	assert.Error(t, err)
}

func TestRun_Migrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profiles.db")

	out, err := runCapture(t, "migrate", "status", "-db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 0 (dirty=false)\n", out)

	out, err = runCapture(t, "migrate", "up", "-db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 1 (dirty=false)\n", out)

	out, err = runCapture(t, "migrate", "down", "-db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 0 (dirty=false)\n", out)

	_, err = runCapture(t, "migrate", "sideways", "-db", dbPath)
	assert.Error(t, err)
}

func TestPlotWith(t *testing.T) {
	cfgPath := testutil.WriteTempFile(t, "bench.json", benchConfig)

	for _, name := range []string{"curve.png", "curve.html"} {
		t.Run(name, func(t *testing.T) {
			fsys := fsutil.NewMemoryFileSystem()
			var buf bytes.Buffer
			err := plotWith(fsys, []string{"-config", cfgPath, "-out", name, "-steps", "21"}, &buf)
			require.NoError(t, err)
			assert.Equal(t, "wrote "+name+"\n", buf.String())

			info, err := fsys.Stat(name)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}

	err := plotWith(fsutil.NewMemoryFileSystem(), []string{"-out", "curve.svg"}, &bytes.Buffer{})
	assert.Error(t, err)

	err = plotWith(fsutil.NewMemoryFileSystem(), []string{"-out", "/etc/curve.png"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPlotWith_DefaultName(t *testing.T) {
	cfgPath := testutil.WriteTempFile(t, "bench.json", benchConfig)
	fsys := fsutil.NewMemoryFileSystem()
	var buf bytes.Buffer

	require.NoError(t, plotWith(fsys, []string{"-config", cfgPath, "-steps", "5"}, &buf))
	assert.Equal(t, "wrote bench-100-distortion.png\n", buf.String())
	_, err := fsys.Stat("bench-100-distortion.png")
	assert.NoError(t, err)
}

func TestParseCenter(t *testing.T) {
	p, err := parseCenter("")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = parseCenter(" 12.5, 7 ")
	require.NoError(t, err)
	assert.Equal(t, &pinhole.Point{X: 12.5, Y: 7}, p)

	for _, bad := range []string{"1", "a,2", "1,b", "1,2,3"} {
		_, err := parseCenter(bad)
		assert.Error(t, err, bad)
	}
}
