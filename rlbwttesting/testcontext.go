package rlbwttesting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log *logger.WrappedLogger
	T   *testing.T
	Dir string
}

type TestConfig struct {
	TestLabelPrefix string
	// LogLevel defaults to NOOP so test output stays quiet.
	LogLevel string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)
	return TestContext{
		T:   t,
		Log: logger.Sugar.WithServiceName(cfg.TestLabelPrefix),
		Dir: t.TempDir(),
	}
}

func (c *TestContext) GetLog() *logger.WrappedLogger { return c.Log }

// WriteFile writes data to name under the context's temporary directory and
// returns the full path.
func (c *TestContext) WriteFile(name string, data []byte) string {
	path := filepath.Join(c.Dir, name)
	require.NoError(c.T, os.WriteFile(path, data, 0o644))
	return path
}

// ReadFile reads a file previously written under the temporary directory.
func (c *TestContext) ReadFile(name string) []byte {
	data, err := os.ReadFile(filepath.Join(c.Dir, name))
	require.NoError(c.T, err)
	return data
}
