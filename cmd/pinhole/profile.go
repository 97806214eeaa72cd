package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/banshee-data/pinhole/internal/config"
	"github.com/banshee-data/pinhole/internal/db"
)

func runProfile(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("profile requires a subcommand: add, list, show, delete")
	}

	sub, rest := args[0], args[1:]
	fs := flag.NewFlagSet("profile "+sub, flag.ContinueOnError)
	fs.SetOutput(out)
	dbPath := fs.String("db", defaultDBPath, "Profile database path")
	name := fs.String("name", "", "Profile name")

	var (
		configPath, description string
		replace                 bool
	)
	if sub == "add" {
		fs.StringVar(&configPath, "config", "", "Camera JSON config file (default: built-in camera)")
		fs.StringVar(&description, "description", "", "Free-form description")
		fs.BoolVar(&replace, "replace", false, "Overwrite an existing profile with the same name")
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}

	store, err := db.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch sub {
	case "add":
		return addProfile(store, out, *name, configPath, description, replace)
	case "list":
		return listProfiles(store, out)
	case "show":
		if *name == "" {
			return fmt.Errorf("--name is required")
		}
		p, err := store.GetProfileByName(*name)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "delete":
		if *name == "" {
			return fmt.Errorf("--name is required")
		}
		p, err := store.GetProfileByName(*name)
		if err != nil {
			return err
		}
		if err := store.DeleteProfile(p.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", p.Name)
		return nil
	default:
		return fmt.Errorf("unknown profile subcommand: %s", sub)
	}
}

func addProfile(store *db.DB, out io.Writer, name, configPath, description string, replace bool) error {
	cfg := config.DefaultCameraConfig()
	if configPath != "" {
		loaded, err := config.LoadCameraConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	p := db.ProfileFromConfig(name, cfg)
	p.Description = description

	if replace {
		existing, err := store.GetProfileByName(p.Name)
		if err == nil {
			p.ID = existing.ID
			if err := store.UpdateProfile(p); err != nil {
				return err
			}
			fmt.Fprintf(out, "updated %s (%s)\n", p.Name, p.ID)
			return nil
		}
	}

	if err := store.CreateProfile(p); err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s (%s)\n", p.Name, p.ID)
	return nil
}

func listProfiles(store *db.DB, out io.Writer) error {
	profiles, err := store.ListProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(out, "no profiles")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFOCAL(mm)\tPITCH(um)\tRESOLUTION\tDISTORTION")
	for _, p := range profiles {
		dist := "-"
		if p.HasDistortion() {
			dist = fmt.Sprintf("%d @ %g", len(p.Distortion), *p.RoundingPrecision)
		}
		fmt.Fprintf(tw, "%s\t%g\t%gx%g\t%dx%d\t%s\n",
			p.Name, p.FocalLengthMM, p.PixelWidthUM, p.PixelHeightUM,
			p.ResolutionWidth, p.ResolutionHeight, dist)
	}
	return tw.Flush()
}
