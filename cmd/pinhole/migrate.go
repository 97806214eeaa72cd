package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/pinhole/internal/db"
	"github.com/banshee-data/pinhole/internal/timeutil"
)

func runMigrate(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("migrate requires a subcommand: up, down, status")
	}

	sub := args[0]
	fs := flag.NewFlagSet("migrate "+sub, flag.ContinueOnError)
	fs.SetOutput(out)
	dbPath := fs.String("db", defaultDBPath, "Profile database path")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	store, err := db.Open(*dbPath, timeutil.RealClock{})
	if err != nil {
		return err
	}
	defer store.Close()

	switch sub {
	case "up":
		if err := store.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := store.MigrateDown(); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("unknown migrate subcommand: %s", sub)
	}

	v, dirty, err := store.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d (dirty=%t)\n", v, dirty)
	return nil
}
