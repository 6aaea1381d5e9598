package config

import (
	"flag"
	"os"
)

// Config holds the engine's runtime configuration, parsed from flags with
// environment-variable fallbacks for containerized deployment.
type Config struct {
	// Server settings
	GRPCPort int
	HTTPPort int
	DataDir  string
	LogLevel string

	// Host sample rate assumed when a hardware processing request omits
	// host_sample_rate.
	DefaultSampleRate float64

	// Auth settings
	AuthEnabled bool
}

func Parse() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.GRPCPort, "grpc-port", 50051, "gRPC control-plane port")
	flag.IntVar(&cfg.HTTPPort, "http-port", 8080, "HTTP REST API port")
	flag.StringVar(&cfg.DataDir, "data-dir", defaultDataDir(), "data directory for SQLite and exported bundles")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Float64Var(&cfg.DefaultSampleRate, "default-sample-rate", 44100, "host sample rate assumed when a hardware processing request omits host_sample_rate")
	flag.BoolVar(&cfg.AuthEnabled, "auth", false, "enable API authentication (default: open for local use)")

	flag.Parse()
	return cfg
}

func defaultDataDir() string {
	if dir := os.Getenv("GROOVE_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".groove"
	}
	return home + "/.groove"
}
