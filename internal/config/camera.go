package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/pinhole"
)

// DefaultConfigPath is the path to the canonical camera defaults file.
const DefaultConfigPath = "config/camera.defaults.json"

// maxFileSize bounds config files; anything larger is not a camera config.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Defaults used when a field is omitted from the JSON.
const (
	DefaultFocalLengthMM    = 15.0
	DefaultPixelWidthUM     = 150.0
	DefaultPixelHeightUM    = 150.0
	DefaultResolutionWidth  = 27
	DefaultResolutionHeight = 26
)

// CameraConfig describes one lens/sensor pairing on disk. Every field is
// optional; the Get* methods supply defaults for missing values.
type CameraConfig struct {
	Name *string `json:"name,omitempty"`

	// Lens
	FocalLengthMM *float64          `json:"focal_length_mm,omitempty"`
	Distortion    *DistortionConfig `json:"distortion,omitempty"`

	// Sensor
	PixelWidthUM     *float64 `json:"pixel_width_um,omitempty"`
	PixelHeightUM    *float64 `json:"pixel_height_um,omitempty"`
	ResolutionWidth  *int     `json:"resolution_width,omitempty"`
	ResolutionHeight *int     `json:"resolution_height,omitempty"`
}

// DistortionConfig is the on-disk form of a distortion table. JSON object
// keys cannot be numbers, so entries are a list of offset/multiplier pairs.
type DistortionConfig struct {
	RoundingPrecision *float64                  `json:"rounding_precision,omitempty"`
	Entries           []pinhole.DistortionEntry `json:"entries"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyCameraConfig returns a CameraConfig with all fields set to nil.
func EmptyCameraConfig() *CameraConfig {
	return &CameraConfig{}
}

// DefaultCameraConfig returns a config with every field populated from the
// package defaults.
func DefaultCameraConfig() *CameraConfig {
	return &CameraConfig{
		Name:             ptrString("default"),
		FocalLengthMM:    ptrFloat64(DefaultFocalLengthMM),
		PixelWidthUM:     ptrFloat64(DefaultPixelWidthUM),
		PixelHeightUM:    ptrFloat64(DefaultPixelHeightUM),
		ResolutionWidth:  ptrInt(DefaultResolutionWidth),
		ResolutionHeight: ptrInt(DefaultResolutionHeight),
	}
}

// LoadCameraConfig loads a CameraConfig from a JSON file on disk.
func LoadCameraConfig(path string) (*CameraConfig, error) {
	return LoadCameraConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadCameraConfigFS loads a CameraConfig through fsys.
// The file must have a .json extension and be under 1MB.
func LoadCameraConfigFS(fsys fsutil.FileSystem, path string) (*CameraConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCameraConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	monitoring.Logf("loaded camera config %s (name=%s)", cleanPath, cfg.GetName())
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching up from the
// working directory. Panics if the file cannot be loaded; intended for
// test setup.
func MustLoadDefaultConfig() *CameraConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/pinhole/
	}
	for _, path := range candidates {
		if cfg, err := LoadCameraConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set. Unset fields fall back to
// defaults, which are always valid.
func (c *CameraConfig) Validate() error {
	if c.FocalLengthMM != nil && !(*c.FocalLengthMM > 0) {
		return fmt.Errorf("focal_length_mm must be positive, got %f", *c.FocalLengthMM)
	}
	if c.PixelWidthUM != nil && !(*c.PixelWidthUM > 0) {
		return fmt.Errorf("pixel_width_um must be positive, got %f", *c.PixelWidthUM)
	}
	if c.PixelHeightUM != nil && !(*c.PixelHeightUM > 0) {
		return fmt.Errorf("pixel_height_um must be positive, got %f", *c.PixelHeightUM)
	}
	if c.ResolutionWidth != nil && *c.ResolutionWidth <= 0 {
		return fmt.Errorf("resolution_width must be positive, got %d", *c.ResolutionWidth)
	}
	if c.ResolutionHeight != nil && *c.ResolutionHeight <= 0 {
		return fmt.Errorf("resolution_height must be positive, got %d", *c.ResolutionHeight)
	}
	if c.Distortion != nil {
		if _, err := c.Distortion.Table(); err != nil {
			return fmt.Errorf("distortion: %w", err)
		}
	}
	return nil
}

// Build turns the config into a conversion package.
func (c *CameraConfig) Build() (*pinhole.Package, error) {
	var table *pinhole.DistortionTable
	if c.Distortion != nil {
		t, err := c.Distortion.Table()
		if err != nil {
			return nil, fmt.Errorf("failed to build distortion table: %w", err)
		}
		table = t
	}

	lens, err := pinhole.NewLens(c.GetFocalLengthMM(), table)
	if err != nil {
		return nil, err
	}
	sensor, err := pinhole.NewSensor(c.GetPixelWidthUM(), c.GetPixelHeightUM(), c.GetResolution())
	if err != nil {
		return nil, err
	}
	return pinhole.NewPackage(lens, sensor)
}

// Table builds the immutable lookup table.
func (d *DistortionConfig) Table() (*pinhole.DistortionTable, error) {
	return pinhole.NewDistortionTableFromEntries(d.Entries, d.GetRoundingPrecision())
}

// GetRoundingPrecision returns the rounding_precision value or 0 (exact lookups).
func (d *DistortionConfig) GetRoundingPrecision() float64 {
	if d.RoundingPrecision == nil {
		return 0
	}
	return *d.RoundingPrecision
}

// GetName returns the name value or "default".
func (c *CameraConfig) GetName() string {
	if c.Name == nil || *c.Name == "" {
		return "default"
	}
	return *c.Name
}

// GetFocalLengthMM returns the focal_length_mm value or the default.
func (c *CameraConfig) GetFocalLengthMM() float64 {
	if c.FocalLengthMM == nil {
		return DefaultFocalLengthMM
	}
	return *c.FocalLengthMM
}

// GetPixelWidthUM returns the pixel_width_um value or the default.
func (c *CameraConfig) GetPixelWidthUM() float64 {
	if c.PixelWidthUM == nil {
		return DefaultPixelWidthUM
	}
	return *c.PixelWidthUM
}

// GetPixelHeightUM returns the pixel_height_um value or the default.
func (c *CameraConfig) GetPixelHeightUM() float64 {
	if c.PixelHeightUM == nil {
		return DefaultPixelHeightUM
	}
	return *c.PixelHeightUM
}

// GetResolution returns the configured resolution, filling either axis
// from the defaults when unset.
func (c *CameraConfig) GetResolution() pinhole.Resolution {
	res := pinhole.Resolution{Width: DefaultResolutionWidth, Height: DefaultResolutionHeight}
	if c.ResolutionWidth != nil {
		res.Width = *c.ResolutionWidth
	}
	if c.ResolutionHeight != nil {
		res.Height = *c.ResolutionHeight
	}
	return res
}
