package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/problemnav/internal/config/loader"
	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/navigator"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "PROBLEMNAV_"

// Config holds all settings.
type Config struct {
	Navigation  NavigationConfig
	Editor      EditorConfig
	Diagnostics DiagnosticsConfig
	Logging     LoggingConfig
}

// NavigationConfig holds navigation settings.
type NavigationConfig struct {
	// MultiSeverityHandling is "hover" or "marker".
	MultiSeverityHandling string
	HoverSettleDelay      time.Duration
}

// EditorConfig holds editor settings that affect presentation.
type EditorConfig struct {
	SmoothScrolling bool
}

// DiagnosticsConfig holds report loading settings.
type DiagnosticsConfig struct {
	Watch          bool
	Reports        []string
	MaxPerDocument int
	// Sources limits markers to these sources. Empty keeps all.
	Sources []string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Navigation: NavigationConfig{
			MultiSeverityHandling: string(navigator.MethodHover),
			HoverSettleDelay:      navigator.DefaultSettleDelay,
		},
		Diagnostics: DiagnosticsConfig{
			Watch:          true,
			MaxPerDocument: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Options control where Load reads settings from.
type Options struct {
	// Path is the TOML file. A missing file is not an error.
	Path string
	// FS overrides the file system, mainly for tests.
	FS loader.FileSystem
	// Env overrides the environment loader. Nil reads PROBLEMNAV_* variables.
	Env loader.Loader
	// Overrides are dot-path settings applied last, e.g. from flags.
	Overrides map[string]any
}

// Load merges defaults, file, environment and overrides into a validated Config.
func Load(opts Options) (*Config, error) {
	merged := Default().toMap()

	if opts.Path != "" {
		fsys := opts.FS
		if fsys == nil {
			fsys = loader.DefaultFS()
		}
		fileCfg, err := loader.NewTOMLLoaderWithFS(fsys, opts.Path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	env := opts.Env
	if env == nil {
		env = loader.NewEnvLoader(EnvPrefix)
	}
	envCfg, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envCfg)

	overrides := make(map[string]any)
	for path, val := range opts.Overrides {
		loader.SetByPath(overrides, path, val)
	}
	merged = loader.DeepMerge(merged, overrides)

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromMap decodes a raw settings map over the defaults. Unknown keys are
// ignored.
func FromMap(m map[string]any) (*Config, error) {
	cfg := Default()
	d := decoder{m: m}

	d.string("navigation.multiSeverityHandling", &cfg.Navigation.MultiSeverityHandling)
	d.duration("navigation.hoverSettleDelay", &cfg.Navigation.HoverSettleDelay)
	d.bool("editor.smoothScrolling", &cfg.Editor.SmoothScrolling)
	d.bool("diagnostics.watch", &cfg.Diagnostics.Watch)
	d.strings("diagnostics.reports", &cfg.Diagnostics.Reports)
	d.int("diagnostics.maxPerDocument", &cfg.Diagnostics.MaxPerDocument)
	d.strings("diagnostics.sources", &cfg.Diagnostics.Sources)
	d.string("logging.level", &cfg.Logging.Level)

	if len(d.errs) > 0 {
		return nil, errors.Join(d.errs...)
	}
	return cfg, nil
}

// Validate checks setting values.
func (c *Config) Validate() error {
	var errs []error

	switch navigator.Method(c.Navigation.MultiSeverityHandling) {
	case navigator.MethodHover, navigator.MethodMarker:
	default:
		errs = append(errs, &ValidationError{
			Path:    "navigation.multiSeverityHandling",
			Value:   c.Navigation.MultiSeverityHandling,
			Message: `must be "hover" or "marker"`,
		})
	}

	if c.Navigation.HoverSettleDelay < 0 {
		errs = append(errs, &ValidationError{
			Path:    "navigation.hoverSettleDelay",
			Value:   c.Navigation.HoverSettleDelay,
			Message: "must not be negative",
		})
	}

	if c.Diagnostics.MaxPerDocument < 0 {
		errs = append(errs, &ValidationError{
			Path:    "diagnostics.maxPerDocument",
			Value:   c.Diagnostics.MaxPerDocument,
			Message: "must not be negative",
		})
	}

	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Value:   c.Logging.Level,
			Message: "must be debug, info, warn or error",
		})
	}

	return errors.Join(errs...)
}

// Presentation returns the navigator presentation policy.
func (c *Config) Presentation() navigator.Presentation {
	return navigator.Presentation{
		Method:          navigator.Method(c.Navigation.MultiSeverityHandling),
		SmoothScrolling: c.Editor.SmoothScrolling,
		SettleDelay:     c.Navigation.HoverSettleDelay,
	}
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

func (c *Config) toMap() map[string]any {
	return map[string]any{
		"navigation": map[string]any{
			"multiSeverityHandling": c.Navigation.MultiSeverityHandling,
			"hoverSettleDelay":      c.Navigation.HoverSettleDelay.String(),
		},
		"editor": map[string]any{
			"smoothScrolling": c.Editor.SmoothScrolling,
		},
		"diagnostics": map[string]any{
			"watch":          c.Diagnostics.Watch,
			"reports":        c.Diagnostics.Reports,
			"maxPerDocument": int64(c.Diagnostics.MaxPerDocument),
			"sources":        c.Diagnostics.Sources,
		},
		"logging": map[string]any{
			"level": c.Logging.Level,
		},
	}
}

// decoder reads typed values out of a raw map, collecting type errors.
type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) lookup(path string) (any, bool) {
	return loader.GetByPath(d.m, path)
}

func (d *decoder) fail(path, expected string, val any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Value: val})
}

func (d *decoder) string(path string, dst *string) {
	val, ok := d.lookup(path)
	if !ok {
		return
	}
	s, ok := val.(string)
	if !ok {
		d.fail(path, "string", val)
		return
	}
	*dst = s
}

func (d *decoder) bool(path string, dst *bool) {
	val, ok := d.lookup(path)
	if !ok {
		return
	}
	switch v := val.(type) {
	case bool:
		*dst = v
	case int64:
		if v != 0 && v != 1 {
			d.fail(path, "bool", val)
			return
		}
		*dst = v == 1
	default:
		d.fail(path, "bool", val)
	}
}

func (d *decoder) int(path string, dst *int) {
	val, ok := d.lookup(path)
	if !ok {
		return
	}
	switch v := val.(type) {
	case int64:
		*dst = int(v)
	case int:
		*dst = v
	default:
		d.fail(path, "integer", val)
	}
}

// duration accepts Go duration strings or integer milliseconds.
func (d *decoder) duration(path string, dst *time.Duration) {
	val, ok := d.lookup(path)
	if !ok {
		return
	}
	switch v := val.(type) {
	case string:
		dur, err := time.ParseDuration(v)
		if err != nil {
			d.fail(path, "duration", val)
			return
		}
		*dst = dur
	case int64:
		*dst = time.Duration(v) * time.Millisecond
	case time.Duration:
		*dst = v
	default:
		d.fail(path, "duration", val)
	}
}

// strings accepts a list of strings or a comma separated string.
func (d *decoder) strings(path string, dst *[]string) {
	val, ok := d.lookup(path)
	if !ok || val == nil {
		return
	}
	switch v := val.(type) {
	case []string:
		*dst = v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				d.fail(path, "list of strings", val)
				return
			}
			out = append(out, s)
		}
		*dst = out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*dst = out
	default:
		d.fail(path, "list of strings", val)
	}
}
