package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

var testEpoch = time.Date(2025, time.June, 23, 23, 3, 46, 0, time.UTC)

// newTestDB opens a fresh database in a temp dir with a frozen clock.
func newTestDB(t *testing.T) (*DB, *timeutil.MockClock) {
	t.Helper()
	clock := timeutil.NewMockClock(testEpoch)
	d, err := NewDBWithClock(filepath.Join(t.TempDir(), "profiles.db"), clock)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return d, clock
}

func TestPragmasApplied(t *testing.T) {
	d, _ := newTestDB(t)

	var journalMode string
	require.NoError(t, d.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, d.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var foreignKeys int
	require.NoError(t, d.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestMigrateVersion(t *testing.T) {
	d, _ := newTestDB(t)

	version, dirty, err := d.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running up again is a no-op.
	require.NoError(t, d.MigrateUp())
}

func TestMigrateDownAndUp(t *testing.T) {
	d, _ := newTestDB(t)

	require.NoError(t, d.MigrateDown())
	version, _, err := d.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	var n int
	err = d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'camera_profiles'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, d.MigrateUp())
	version, _, err = d.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestNewDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.db")

	d, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, d.CreateProfile(&CameraProfile{
		Name: "persisted", FocalLengthMM: 4, PixelWidthUM: 1.4, PixelHeightUM: 1.4,
		ResolutionWidth: 4032, ResolutionHeight: 3024,
	}))
	require.NoError(t, d.Close())

	d, err = NewDB(path)
	require.NoError(t, err)
	defer d.Close()

	p, err := d.GetProfileByName("persisted")
	require.NoError(t, err)
	assert.Equal(t, 4032, p.ResolutionWidth)
}

func TestOpenSkipsMigrations(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "bare.db"), timeutil.RealClock{})
	require.NoError(t, err)
	defer d.Close()

	version, dirty, err := d.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)
}
