// This package defines a common config struct used to build decoders and their loggers.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Nesting deeper than this is rejected unless overridden with WithMaxDepth.
const DefaultMaxDepth = 512

type Config struct {
	Debug         bool
	RootDir       string
	LoggingPrefix string
	LogToFile     bool
	MaxDepth      int
	BinaryKeys    bool
	writer        io.Writer
}

func (c Config) Logger(source string) *zap.SugaredLogger {
	var p string
	if source == "" {
		p = c.LoggingPrefix
	} else {
		p = fmt.Sprintf("%s:%s", c.LoggingPrefix, source)
	}

	level := zapcore.InfoLevel
	if c.Debug {
		level = zapcore.DebugLevel
	}
	opts := []zap.Option{
		zap.Fields(zap.String("source", p)),
	}

	de := zap.NewDevelopmentEncoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(de), zapcore.AddSync(os.Stdout), level),
	}
	if c.writer != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(de), zapcore.AddSync(c.writer), level))
	}
	logger := zap.New(zapcore.NewTee(cores...), opts...)
	return logger.Sugar()
}

type Option func(*Config)

func WithDebug(d bool) Option {
	return func(c *Config) {
		c.Debug = d
	}
}

func WithRootDir(d string) Option {
	return func(c *Config) {
		c.RootDir = d
	}
}

func WithLoggingPrefix(p string) Option {
	return func(c *Config) {
		c.LoggingPrefix = p
	}
}

// WithLogToFile enables the rotating out.log under RootDir.
func WithLogToFile(b bool) Option {
	return func(c *Config) {
		c.LogToFile = b
	}
}

// WithMaxDepth sets the deepest list/dictionary nesting a decoder accepts.
// Values below 1 fall back to DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Config) {
		c.MaxDepth = n
	}
}

// WithBinaryKeys allows dictionary keys that are not valid UTF-8.
func WithBinaryKeys(b bool) Option {
	return func(c *Config) {
		c.BinaryKeys = b
	}
}

func NewConfig(opts ...Option) *Config {
	c := &Config{
		Debug:         os.Getenv("DEBUG") == "1",
		LoggingPrefix: "bencode",
		RootDir:       ".",
		MaxDepth:      DefaultMaxDepth,

		writer: nil,
	}
	for _, o := range opts {
		o(c)
	}
	if c.MaxDepth < 1 {
		c.MaxDepth = DefaultMaxDepth
	}

	if c.LogToFile {
		c.writer = &lumberjack.Logger{
			Filename:   filepath.Join(c.RootDir, "out.log"),
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28,   // days
			Compress:   true, // disabled by default
		}
	}
	return c
}
