// Package config loads simulation settings from a YAML file, flags and
// positional arguments.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"gitlab.com/slon/library/library"
)

var (
	ErrInvalid = errors.New("invalid config")
	ErrArgs    = errors.New("parameters must be numbers")
)

// Config describes one simulation run.
type Config struct {
	MaxReaders int `yaml:"max_readers"`
	Readers    int `yaml:"readers"`
	Writers    int `yaml:"writers"`

	LaunchInterval time.Duration `yaml:"launch_interval"`
	MinHold        time.Duration `yaml:"min_hold"`
	MaxHold        time.Duration `yaml:"max_hold"`
	Rest           time.Duration `yaml:"rest"`
	// Duration limits the run; zero means until interrupted.
	Duration time.Duration `yaml:"duration"`

	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	StatusAddr string `yaml:"status_addr"`
	ReportPath string `yaml:"report_path"`
}

func Default() Config {
	return Config{
		MaxReaders:     library.DefaultMaxReaders,
		Readers:        10,
		Writers:        3,
		LaunchInterval: 600 * time.Millisecond,
		MinHold:        time.Second,
		MaxHold:        3 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads the YAML file at path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	// пустой файл означает конфиг по умолчанию
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.MaxReaders < 1:
		return fmt.Errorf("%w: max_readers must be positive, got %d", ErrInvalid, c.MaxReaders)
	case c.Readers < 0 || c.Writers < 0:
		return fmt.Errorf("%w: negative number of clients", ErrInvalid)
	case c.LaunchInterval < 0 || c.Rest < 0 || c.Duration < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	case c.MinHold < 0 || c.MaxHold < c.MinHold:
		return fmt.Errorf("%w: hold range [%s, %s]", ErrInvalid, c.MinHold, c.MaxHold)
	case c.LogFormat != "json" && c.LogFormat != "text" && c.LogFormat != "console":
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return level, nil
}

// ApplyArgs takes the number of readers and writers from positional
// arguments. On a parse error c is left untouched.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) < 2 {
		return nil
	}
	readers, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArgs, err)
	}
	writers, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArgs, err)
	}
	c.Readers, c.Writers = readers, writers
	return nil
}

// Flags binds command line flags that override the config file.
type Flags struct {
	fs     *pflag.FlagSet
	path   string
	values Config
}

func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()
	v := &f.values

	fs.StringVarP(&f.path, "config", "c", "", "path to .yaml config")
	fs.IntVar(&v.MaxReaders, "max-readers", d.MaxReaders, "readers allowed inside at once")
	fs.IntVar(&v.Readers, "readers", d.Readers, "number of reader tasks")
	fs.IntVar(&v.Writers, "writers", d.Writers, "number of writer tasks")
	fs.DurationVar(&v.LaunchInterval, "launch-interval", d.LaunchInterval, "delay between task launches")
	fs.DurationVar(&v.MinHold, "min-hold", d.MinHold, "minimal time spent inside")
	fs.DurationVar(&v.MaxHold, "max-hold", d.MaxHold, "maximal time spent inside")
	fs.DurationVar(&v.Rest, "rest", d.Rest, "pause before queueing again")
	fs.DurationVar(&v.Duration, "duration", d.Duration, "stop after this long, 0 runs until interrupted")
	fs.StringVar(&v.LogLevel, "log-level", d.LogLevel, "debug, info, warn or error")
	fs.StringVar(&v.LogFormat, "log-format", d.LogFormat, "json, text or console")
	fs.StringVar(&v.StatusAddr, "status-addr", d.StatusAddr, "address of the status server, empty disables it")
	fs.StringVar(&v.ReportPath, "report", d.ReportPath, "write an xlsx timeline to this path on exit")
	return f
}

// Resolve builds the config: defaults, then the config file, then every
// flag set explicitly.
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.path != "" {
		var err error
		if cfg, err = Load(f.path); err != nil {
			return Config{}, err
		}
	}

	v := f.values
	overrides := map[string]func(){
		"max-readers":     func() { cfg.MaxReaders = v.MaxReaders },
		"readers":         func() { cfg.Readers = v.Readers },
		"writers":         func() { cfg.Writers = v.Writers },
		"launch-interval": func() { cfg.LaunchInterval = v.LaunchInterval },
		"min-hold":        func() { cfg.MinHold = v.MinHold },
		"max-hold":        func() { cfg.MaxHold = v.MaxHold },
		"rest":            func() { cfg.Rest = v.Rest },
		"duration":        func() { cfg.Duration = v.Duration },
		"log-level":       func() { cfg.LogLevel = v.LogLevel },
		"log-format":      func() { cfg.LogFormat = v.LogFormat },
		"status-addr":     func() { cfg.StatusAddr = v.StatusAddr },
		"report":          func() { cfg.ReportPath = v.ReportPath },
	}
	f.fs.Visit(func(flag *pflag.Flag) {
		if apply, ok := overrides[flag.Name]; ok {
			apply()
		}
	})
	return cfg, nil
}
