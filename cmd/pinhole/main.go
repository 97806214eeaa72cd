package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/version"
)

var verbose = flag.Bool("v", false, "Verbose diagnostic logging")

func main() {
	flag.Usage = func() { printUsage(os.Stdout) }
	flag.Parse()
	monitoring.SetVerbose(*verbose)

	if flag.NArg() < 1 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Args()[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pinhole %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

// run dispatches one subcommand. Output goes to out so tests can capture it.
func run(command string, args []string, out io.Writer) error {
	switch command {
	case "distance":
		return runDistance(args, out)
	case "size":
		return runSize(args, out)
	case "plot":
		return runPlot(args, out)
	case "profile":
		return runProfile(args, out)
	case "migrate":
		return runMigrate(args, out)
	case "version":
		fmt.Fprintln(out, version.String())
		return nil
	case "help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `pinhole - pinhole camera size/distance conversions

Usage: pinhole [-v] <command> [options]

Commands:
  distance   Distance to an object of known size from its pixel extent
  size       Size of an object at a known distance from its pixel extent
  plot       Render the lens distortion correction curve (.png or .html)
  profile    Manage stored camera profiles (add, list, show, delete)
  migrate    Manage the profile database schema (up, down, status)
  version    Show version information
  help       Show this help message

Camera selection (distance, size, plot):
  --profile <name>   Use a stored profile from --db
  --config <file>    Use a camera JSON config
                     With neither flag the built-in default camera is used
  --db <file>        Profile database (default: pinhole.db)

Examples:
  pinhole distance --axis y --actual 1.5 --observed 10
  pinhole distance --config config/camera.distortion.example.json \
      --axis y --actual 1.5 --observed 10 --center 50,75
  pinhole size --profile bench-100 --distance 15 --observed 10 --units m
  pinhole profile add --name bench-100 --config config/camera.distortion.example.json
  pinhole plot --profile bench-100 --out bench-100.html`)
}
