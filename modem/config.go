package modem

import (
	"context"
	"log/slog"
	"time"

	"github.com/airgradienthq/cellmodem/at"
)

// PowerController pulses the modem's power/reset GPIO. Left as an injected
// collaborator (rather than a GPIO library dependency) so ModemDriver stays
// testable off real hardware. Driver decides when to call it (PowerOff
// pulses only when forced or when AT+CPOF is not acknowledged); Driver adds
// no wait of its own around the pulse.
type PowerController interface {
	PowerOn(ctx context.Context) error
	PowerOff(ctx context.Context) error
}

const (
	defaultATTimeout              = 5 * time.Second
	defaultInitTimeout            = 30 * time.Second
	defaultHTTPReadChunkSize      = 200
	defaultHTTPConnectTimeoutSec  = 120
	defaultHTTPResponseTimeoutSec = 20

	httpReadChunkSizeMin = 16
	httpReadChunkSizeMax = 1024
)

// Config holds everything a Driver needs to talk to one modem. Build one
// with ConfigBuilder rather than filling in the struct by hand: unexported
// fields keep the AT engine seam out of the public surface.
type Config struct {
	engine atEngine
	power  PowerController
	logger *slog.Logger

	ATTimeout   time.Duration
	InitTimeout time.Duration

	HTTPReadChunkSize          int
	DefaultHTTPConnectTimeout  int
	DefaultHTTPResponseTimeout int
}

func (c *Config) setDefaults() {
	if c.ATTimeout == 0 {
		c.ATTimeout = defaultATTimeout
	}
	if c.InitTimeout == 0 {
		c.InitTimeout = defaultInitTimeout
	}
	if c.HTTPReadChunkSize == 0 {
		c.HTTPReadChunkSize = defaultHTTPReadChunkSize
	}
	if c.DefaultHTTPConnectTimeout == 0 {
		c.DefaultHTTPConnectTimeout = defaultHTTPConnectTimeoutSec
	}
	if c.DefaultHTTPResponseTimeout == 0 {
		c.DefaultHTTPResponseTimeout = defaultHTTPResponseTimeoutSec
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
}

func (c *Config) validate() error {
	if c.engine == nil {
		return ErrNoLine
	}
	return nil
}

// ConfigBuilder assembles a Config through named With* steps, mirroring
// the teacher's setDefaults()/validate() split generalized into a fluent
// builder instead of a struct literal the caller fills in directly.
type ConfigBuilder struct {
	cfg Config
}

// NewConfigBuilder starts a new ConfigBuilder with no line, no power
// controller and zero-value timeouts (filled in by Build via setDefaults).
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithLine wires a raw at.Line (typically a *serial.Line) into a fresh
// at.Engine, the normal path for production callers.
func (b *ConfigBuilder) WithLine(line at.Line) *ConfigBuilder {
	b.cfg.engine = at.New(line)
	return b
}

// WithEngine wires an already-constructed AT engine directly; used by
// tests to substitute a mock in place of WithLine's at.New(line).
func (b *ConfigBuilder) WithEngine(e atEngine) *ConfigBuilder {
	b.cfg.engine = e
	return b
}

// WithPower attaches a PowerController so PowerOn/PowerOff can pulse real
// hardware.
func (b *ConfigBuilder) WithPower(p PowerController) *ConfigBuilder {
	b.cfg.power = p
	return b
}

// WithLogger overrides the default slog.Default() logger.
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.cfg.logger = l
	return b
}

// WithATTimeout overrides the per-command AT response wait.
func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.ATTimeout = d
	return b
}

// WithInitTimeout overrides the overall New() initialization deadline.
func (b *ConfigBuilder) WithInitTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.InitTimeout = d
	return b
}

// WithHTTPReadChunkSize overrides the +HTTPREAD transfer window (default
// 200 bytes, matching original_source's HTTPREAD_CHUNK_SIZE), clamped to
// the documented 16-1024 byte range.
func (b *ConfigBuilder) WithHTTPReadChunkSize(n int) *ConfigBuilder {
	b.cfg.HTTPReadChunkSize = clamp(n, httpReadChunkSizeMin, httpReadChunkSizeMax)
	return b
}

// Build validates and returns the assembled Config, applying defaults for
// any zero-value field first.
func (b *ConfigBuilder) Build() (Config, error) {
	cfg := b.cfg
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
