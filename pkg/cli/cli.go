// Package cli parses glint's command line.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings parsed from the command line.
type Config struct {
	ProjectPath string        // path to a project directory or glint.toml
	Timeout     time.Duration // auto-exit after this long (0 is unlimited)
	LogLevel    string        // debug, info, warn, error
	ShowHelp    bool
}

// ParseArgs parses command line arguments into a Config. Flags may appear
// before or after the project path; environment variables LOG_LEVEL and
// TIMEOUT fill in values no flag set.
func ParseArgs(args []string) (*Config, error) {
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("glint", flag.ContinueOnError)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "auto-exit after this many seconds (0 is unlimited)")
	fs.IntVar(&timeoutSec, "t", 0, "auto-exit after this many seconds (shorthand)")
	fs.StringVar(&config.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogLevel, "l", "info", "log level (shorthand)")
	fs.BoolVar(&config.ShowHelp, "help", false, "show help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// Environment variables fill in what flags left at the default.
	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if fs.NArg() > 0 {
		config.ProjectPath = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs moves flags ahead of positional arguments so that
// `glint myproject -l debug` works the way users expect.
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	boolFlags := map[string]bool{
		"-help": true, "--help": true, "-h": true, "--h": true,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)
			// Value-taking flags consume the next argument unless the
			// value came attached with `=`.
			if !boolFlags[arg] && !strings.Contains(arg, "=") &&
				i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, arg)
		}
	}

	return append(flags, positional...)
}

// PrintHelp prints usage to stdout.
func PrintHelp() {
	fmt.Println(`glint - a demoscene render-script runner

Usage:
  glint [flags] <project-dir | glint.toml>

Flags:
  -t, -timeout <sec>    auto-exit after this many seconds (0 is unlimited)
  -l, -log-level <lvl>  log level: debug, info, warn, error (default info)
  -h, -help             show this help

Environment:
  LOG_LEVEL  default log level when -log-level is not given
  TIMEOUT    default timeout when -timeout is not given`)
}
