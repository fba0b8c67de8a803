package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Write logs to this file (rotated)")
	flagColor   = flag.String("color", "", "Display color r,g,b[,a] or \"default\", attached as material")
	flagFormat  = flag.String("format", "", "Output format: glb, gltf or auto")
	flagOutDir  = flag.String("out-dir", "", "Output directory for batch jobs without an output path")
)

// ParseFlags parses command-line flags from args (without the program
// name and sub-command) and returns the remaining positional arguments.
func ParseFlags(args []string) []string {
	_ = flag.CommandLine.Parse(args) // ExitOnError
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagColor != "" {
		cfg.Output.Color = *flagColor
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagOutDir != "" {
		cfg.Output.Dir = *flagOutDir
	}
}
