package livegraph

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/viant/afs"
	"github.com/viant/livegraph/emit"
	"github.com/viant/livegraph/global"
)

// Config carries the options enumerated in spec §6.
type Config struct {
	Format           emit.Format `yaml:"format"`
	Ext              string      `yaml:"ext"`
	MapExt           string      `yaml:"mapExt"`
	Exec             bool        `yaml:"exec"`
	Compact          bool        `yaml:"compact"`
	Inline           bool        `yaml:"inline"`
	Mangle           bool        `yaml:"mangle"`
	KeepComments     bool        `yaml:"keepComments"`
	ProduceSourceMap bool        `yaml:"produceSourceMap"`
	AssumeStrictEnv  bool        `yaml:"assumeStrictEnv"`
}

// defaultConfig mirrors the non-destructive defaults spec.md §6 implies:
// pretty-printed, inlining and mangling both on, plain expression format.
func defaultConfig() Config {
	return Config{
		Format: emit.FormatExpression,
		Ext:    ".js",
		MapExt: ".js.map",
		Inline: true,
		Mangle: true,
	}
}

// validate enforces spec §7 error kind 3 ("option conflict"), checked
// before any tracing begins.
func (c Config) validate() *Error {
	if c.Exec && c.Format == emit.FormatExpression {
		return optionConflict("exec=true is not allowed with format=%s", emit.FormatExpression)
	}
	if c.AssumeStrictEnv && c.Format == emit.FormatScriptCJS {
		return optionConflict("assume-strict-env may not be set for format=%s", emit.FormatScriptCJS)
	}
	if !c.AssumeStrictEnv && c.Format == emit.FormatScriptESM {
		return optionConflict("assume-strict-env must be set for format=%s", emit.FormatScriptESM)
	}
	return nil
}

// Option configures an Engine, grounded on the teacher's analyzer.Option /
// WithX functional-option idiom.
type Option func(*Engine)

// WithConfig sets the full Config at once, e.g. after LoadConfig.
func WithConfig(c Config) Option {
	return func(e *Engine) { e.cfg = c }
}

// WithLogger attaches a structured logger threaded through every
// collaborator stage (spec §5 "(added) Logging").
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithGlobalTable installs a pre-built, shared global.Table (spec §5:
// "constructed once at engine initialization ... may be shared across
// concurrent engine instances").
func WithGlobalTable(t *global.Table) Option {
	return func(e *Engine) { e.globals = t }
}

// WithPlugin registers a TracePlugin hook (SPEC_FULL supplemented
// feature).
func WithPlugin(p TracePlugin) Option {
	return func(e *Engine) { e.plugins = append(e.plugins, p) }
}

// LoadConfig reads a YAML options file through an afs.Service, so the same
// loader works against a real filesystem, an in-memory one in tests, or
// object storage (DOMAIN STACK: github.com/viant/afs).
func LoadConfig(ctx context.Context, service afs.Service, url string) (Config, error) {
	cfg := defaultConfig()
	data, err := service.DownloadWithURL(ctx, url)
	if err != nil {
		return cfg, fmt.Errorf("livegraph: load config %s: %w", url, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("livegraph: parse config %s: %w", url, err)
	}
	return cfg, nil
}

// LoadConfigFile is a convenience wrapper over LoadConfig for a local path,
// used by cmd/livegraph.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig(), fmt.Errorf("livegraph: read config %s: %w", path, err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("livegraph: parse config %s: %w", path, err)
	}
	return cfg, nil
}
