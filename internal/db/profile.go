package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/pinhole/internal/config"
	"github.com/banshee-data/pinhole/internal/pinhole"
	"github.com/google/uuid"
)

// CameraProfile is a named lens/sensor pairing with its calibration table.
// A nil RoundingPrecision means the lens has no distortion table.
type CameraProfile struct {
	ID                string                    `json:"id"`
	Name              string                    `json:"name"`
	Description       string                    `json:"description"`
	FocalLengthMM     float64                   `json:"focal_length_mm"`
	PixelWidthUM      float64                   `json:"pixel_width_um"`
	PixelHeightUM     float64                   `json:"pixel_height_um"`
	ResolutionWidth   int                       `json:"resolution_width"`
	ResolutionHeight  int                       `json:"resolution_height"`
	RoundingPrecision *float64                  `json:"rounding_precision"`
	Distortion        []pinhole.DistortionEntry `json:"distortion"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// HasDistortion reports whether the profile carries a distortion table.
func (p *CameraProfile) HasDistortion() bool {
	return p.RoundingPrecision != nil
}

// Package builds the conversion package described by the profile.
func (p *CameraProfile) Package() (*pinhole.Package, error) {
	var table *pinhole.DistortionTable
	if p.HasDistortion() {
		t, err := pinhole.NewDistortionTableFromEntries(p.Distortion, *p.RoundingPrecision)
		if err != nil {
			return nil, err
		}
		table = t
	}
	lens, err := pinhole.NewLens(p.FocalLengthMM, table)
	if err != nil {
		return nil, err
	}
	sensor, err := pinhole.NewSensor(p.PixelWidthUM, p.PixelHeightUM, pinhole.Resolution{
		Width:  p.ResolutionWidth,
		Height: p.ResolutionHeight,
	})
	if err != nil {
		return nil, err
	}
	return pinhole.NewPackage(lens, sensor)
}

// ProfileFromConfig copies a camera config into an unsaved profile.
func ProfileFromConfig(name string, cfg *config.CameraConfig) *CameraProfile {
	if name == "" {
		name = cfg.GetName()
	}
	res := cfg.GetResolution()
	p := &CameraProfile{
		Name:             name,
		FocalLengthMM:    cfg.GetFocalLengthMM(),
		PixelWidthUM:     cfg.GetPixelWidthUM(),
		PixelHeightUM:    cfg.GetPixelHeightUM(),
		ResolutionWidth:  res.Width,
		ResolutionHeight: res.Height,
	}
	if cfg.Distortion != nil {
		precision := cfg.Distortion.GetRoundingPrecision()
		p.RoundingPrecision = &precision
		p.Distortion = append([]pinhole.DistortionEntry(nil), cfg.Distortion.Entries...)
	}
	return p
}

// CreateProfile validates and stores a new profile, assigning its ID and
// timestamps.
func (db *DB) CreateProfile(p *CameraProfile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if _, err := p.Package(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM camera_profiles WHERE name = ?`, p.Name).Scan(&count); err != nil {
		return fmt.Errorf("failed to check profile name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}

	now := db.clock.Now().Truncate(time.Second)
	id := uuid.NewString()

	_, err = tx.Exec(`
		INSERT INTO camera_profiles (
			profile_id, name, description, focal_length_mm,
			pixel_width_um, pixel_height_um, resolution_width, resolution_height,
			rounding_precision, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Description, p.FocalLengthMM,
		p.PixelWidthUM, p.PixelHeightUM, p.ResolutionWidth, p.ResolutionHeight,
		p.RoundingPrecision, now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if err := insertDistortion(tx, id, p.Distortion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// UpdateProfile replaces every field of an existing profile, including its
// distortion table. ID and CreatedAt are preserved.
func (db *DB) UpdateProfile(p *CameraProfile) error {
	if _, err := p.Package(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := db.clock.Now().Truncate(time.Second)
	res, err := tx.Exec(`
		UPDATE camera_profiles SET
			name = ?, description = ?, focal_length_mm = ?,
			pixel_width_um = ?, pixel_height_um = ?,
			resolution_width = ?, resolution_height = ?,
			rounding_precision = ?, updated_at = ?
		WHERE profile_id = ?`,
		p.Name, p.Description, p.FocalLengthMM,
		p.PixelWidthUM, p.PixelHeightUM,
		p.ResolutionWidth, p.ResolutionHeight,
		p.RoundingPrecision, now.Unix(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, p.ID)
	}

	if _, err := tx.Exec(`DELETE FROM distortion_entries WHERE profile_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear distortion entries: %w", err)
	}
	if err := insertDistortion(tx, p.ID, p.Distortion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	p.UpdatedAt = now
	return nil
}

func insertDistortion(tx *sql.Tx, id string, entries []pinhole.DistortionEntry) error {
	for _, e := range entries {
		_, err := tx.Exec(
			`INSERT INTO distortion_entries (profile_id, normalized_offset, multiplier) VALUES (?, ?, ?)`,
			id, e.Offset, e.Multiplier,
		)
		if err != nil {
			return fmt.Errorf("failed to store distortion entry %g: %w", e.Offset, err)
		}
	}
	return nil
}

const selectProfile = `
	SELECT
		profile_id, name, description, focal_length_mm,
		pixel_width_um, pixel_height_um, resolution_width, resolution_height,
		rounding_precision, created_at, updated_at
	FROM camera_profiles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*CameraProfile, error) {
	var p CameraProfile
	var precision sql.NullFloat64
	var createdAtUnix, updatedAtUnix int64

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.FocalLengthMM,
		&p.PixelWidthUM,
		&p.PixelHeightUM,
		&p.ResolutionWidth,
		&p.ResolutionHeight,
		&precision,
		&createdAtUnix,
		&updatedAtUnix,
	)
	if err != nil {
		return nil, err
	}

	if precision.Valid {
		v := precision.Float64
		p.RoundingPrecision = &v
	}
	p.CreatedAt = time.Unix(createdAtUnix, 0)
	p.UpdatedAt = time.Unix(updatedAtUnix, 0)
	return &p, nil
}

func (db *DB) loadDistortion(p *CameraProfile) error {
	rows, err := db.Query(
		`SELECT normalized_offset, multiplier FROM distortion_entries
		WHERE profile_id = ? ORDER BY normalized_offset`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query distortion entries: %w", err)
	}
	defer rows.Close()

	p.Distortion = nil
	for rows.Next() {
		var e pinhole.DistortionEntry
		if err := rows.Scan(&e.Offset, &e.Multiplier); err != nil {
			return fmt.Errorf("failed to scan distortion entry: %w", err)
		}
		p.Distortion = append(p.Distortion, e)
	}
	return rows.Err()
}

func (db *DB) getProfileWhere(clause string, arg any) (*CameraProfile, error) {
	p, err := scanProfile(db.QueryRow(selectProfile+" WHERE "+clause, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrProfileNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err := db.loadDistortion(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile retrieves a profile by ID
func (db *DB) GetProfile(id string) (*CameraProfile, error) {
	return db.getProfileWhere("profile_id = ?", id)
}

// GetProfileByName retrieves a profile by its unique name
func (db *DB) GetProfileByName(name string) (*CameraProfile, error) {
	return db.getProfileWhere("name = ?", name)
}

// ListProfiles returns all profiles ordered by name, distortion tables included.
func (db *DB) ListProfiles() ([]*CameraProfile, error) {
	rows, err := db.Query(selectProfile + " ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var profiles []*CameraProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before loading entries: the store runs on a single connection.
	rows.Close()

	for _, p := range profiles {
		if err := db.loadDistortion(p); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// DeleteProfile removes a profile and its distortion entries.
func (db *DB) DeleteProfile(id string) error {
	res, err := db.Exec(`DELETE FROM camera_profiles WHERE profile_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return nil
}
