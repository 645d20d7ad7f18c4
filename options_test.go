package webpdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func applyOptions(opts ...Option) capturerConfig {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.True(t, cfg.noSandbox)
	assert.Equal(t, "new", cfg.headless)
	assert.Equal(t, MediaScreen, cfg.pdfMedia)
	assert.NotNil(t, cfg.logger)
	assert.Equal(t, defaultTimings(), cfg.timings)
}

func TestDefaultTimings(t *testing.T) {
	tm := defaultTimings()
	assert.Equal(t, 90*time.Second, tm.navigation)
	assert.Equal(t, 90*time.Second, tm.networkIdle)
	assert.Equal(t, 700*time.Millisecond, tm.scrollPause)
	assert.Equal(t, time.Second, tm.settle)
}

func TestSandboxOptions(t *testing.T) {
	assert.False(t, applyOptions(WithSandbox()).noSandbox)
	assert.True(t, applyOptions(WithSandbox(), WithNoSandbox()).noSandbox)
	assert.False(t, applyOptions(WithNoSandbox(), WithSandbox()).noSandbox)
}

func TestWithLoggerNil(t *testing.T) {
	l := zap.NewExample()
	cfg := applyOptions(WithLogger(l), WithLogger(nil))
	assert.Same(t, l, cfg.logger)
}
