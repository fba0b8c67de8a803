// stlgltf converts ASCII STL meshes into glTF 2.0 assets.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/stlgltf/internal/config"
	"github.com/Faultbox/stlgltf/internal/logger"
)

func main() {
	args := config.ParseFlags(os.Args[1:])
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "convert", "c":
		err = withConfig(func(cfg *config.Config) error { return cmdConvert(cfg, args) })
	case "batch", "b":
		err = withConfig(func(cfg *config.Config) error { return cmdBatch(cfg, args) })
	case "info":
		err = cmdInfo(args)
	case "init-config":
		err = cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withConfig loads configuration, starts logging and runs fn.
func withConfig(fn func(cfg *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	return fn(cfg)
}

func printUsage() {
	fmt.Println(`stlgltf - ASCII STL to glTF 2.0 converter

Usage:
  stlgltf [flags] <command> [arguments]

Commands:
  convert <input.stl> [output]   Convert one file (.glb or .gltf by extension)
  batch [input.stl ...]          Convert the jobs from the config file and
                                 any inputs given on the command line
  info <file.glb|file.gltf>      Show asset structure and bounds
  init-config [path]             Write a default config file

Flags:
  -config <path>     Config file (default: ./stlgltf.yaml, then user config dir)
  -color r,g,b[,a]   Attach a base-color material ("default" for grey)
  -format glb|gltf   Force the output format
  -out-dir <dir>     Output directory for inputs without an explicit output
  -log-file <path>   Also write JSON logs to a rotated file
  -debug             Enable debug logging

Examples:
  stlgltf convert Rotor_Segment.stl
  stlgltf -color default convert Stator_Segment.stl stator.gltf
  stlgltf -config segments.yaml batch
  stlgltf info rotor.glb`)
}
