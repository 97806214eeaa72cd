package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/pinhole/internal/config"
	"github.com/banshee-data/pinhole/internal/db"
	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/pinhole"
)

const defaultDBPath = "pinhole.db"

// cameraFlags selects where the lens/sensor pairing comes from.
type cameraFlags struct {
	configPath string
	dbPath     string
	profile    string
}

func (c *cameraFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Camera JSON config file")
	fs.StringVar(&c.dbPath, "db", defaultDBPath, "Profile database path")
	fs.StringVar(&c.profile, "profile", "", "Stored camera profile name")
}

// load resolves the camera to a Package along with a display name.
func (c *cameraFlags) load() (*pinhole.Package, string, error) {
	switch {
	case c.profile != "" && c.configPath != "":
		return nil, "", fmt.Errorf("--profile and --config are mutually exclusive")

	case c.profile != "":
		store, err := db.NewDB(c.dbPath)
		if err != nil {
			return nil, "", err
		}
		defer store.Close()

		p, err := store.GetProfileByName(c.profile)
		if err != nil {
			return nil, "", err
		}
		pkg, err := p.Package()
		if err != nil {
			return nil, "", fmt.Errorf("profile %s: %w", p.Name, err)
		}
		monitoring.Debugf("using profile %s (%s)", p.Name, p.ID)
		return pkg, p.Name, nil

	case c.configPath != "":
		cfg, err := config.LoadCameraConfig(c.configPath)
		if err != nil {
			return nil, "", err
		}
		pkg, err := cfg.Build()
		if err != nil {
			return nil, "", err
		}
		return pkg, cfg.GetName(), nil

	default:
		cfg := config.DefaultCameraConfig()
		pkg, err := cfg.Build()
		if err != nil {
			return nil, "", err
		}
		monitoring.Debugf("using built-in default camera")
		return pkg, cfg.GetName(), nil
	}
}

// parseCenter parses "x,y" pixel coordinates. Empty input means no centre.
func parseCenter(s string) (*pinhole.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid center %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid center x '%s': %w", parts[0], err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid center y '%s': %w", parts[1], err)
	}
	return &pinhole.Point{X: x, Y: y}, nil
}
