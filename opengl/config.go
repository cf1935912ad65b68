package opengl

import "go.uber.org/zap"

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Title      string       // window title
	Step       func() error // go to next step
	ForcePause bool         // step manually only?
	Log        *zap.Logger  // defaults to a no-op logger
}

func (c *Config) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
